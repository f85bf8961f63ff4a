package improv

import (
	"context"
	"strings"
	"testing"

	"github.com/voxdesk/voxdesk/agent/update"
)

func newTestAgent() (*Agent, *update.MemorySink) {
	sink := update.NewMemorySink()
	return New(update.NewEmitter(sink, "improv")), sink
}

func call(t *testing.T, a *Agent, tool string, args map[string]any) string {
	t.Helper()
	result, err := a.Execute(context.Background(), tool, args)
	if err != nil {
		t.Fatalf("%s: %v", tool, err)
	}
	if result.Error != "" {
		t.Fatalf("%s: unexpected error reply %q", tool, result.Error)
	}
	return result.Reply
}

func TestStartBattleAndIntro(t *testing.T) {
	t.Parallel()

	a, sink := newTestAgent()

	got := call(t, a, ToolStartImprovBattle, map[string]any{"player_name": "Jess"})
	if !strings.Contains(got, "Welcome to IMPROV BATTLE!") || !strings.Contains(got, "3 different improv scenarios") {
		t.Fatalf("intro = %q", got)
	}

	status := call(t, a, ToolGetGameStatus, nil)
	if !strings.Contains(status, "Player: Jess") || !strings.Contains(status, "Round: 0/3") || !strings.Contains(status, "Phase: intro") {
		t.Fatalf("status = %q", status)
	}

	if len(sink.Messages()) == 0 {
		t.Fatal("expected an improv_update emission")
	}
}

func TestRoundProgressionToFinalSummary(t *testing.T) {
	t.Parallel()

	a, _ := newTestAgent()
	call(t, a, ToolStartImprovBattle, nil)
	call(t, a, ToolSetPlayerName, map[string]any{"name": "Marco"})

	for i := 1; i <= 3; i++ {
		got := call(t, a, ToolStartNextRound, nil)
		if !strings.Contains(got, "start improvising now!") {
			t.Fatalf("round %d intro = %q", i, got)
		}

		got = call(t, a, ToolReactToPerformance, map[string]any{"reaction": "That was wild!"})
		if i < 3 && !strings.Contains(got, "ready for the next challenge?") {
			t.Fatalf("round %d reaction = %q", i, got)
		}
		if i == 3 && !strings.Contains(got, "That wraps up our final round!") {
			t.Fatalf("final reaction = %q", got)
		}
	}

	// A fourth round request ends the show instead.
	got := call(t, a, ToolStartNextRound, nil)
	if !strings.Contains(got, "Marco") || !strings.Contains(got, "Thanks for playing Improv Battle!") {
		t.Fatalf("overflow round = %q", got)
	}
	if !strings.Contains(got, "particularly memorable") {
		t.Fatalf("summary missing memorable moment: %q", got)
	}

	status := call(t, a, ToolGetGameStatus, nil)
	if !strings.Contains(status, "Phase: done") || !strings.Contains(status, "Scenarios completed: 3") {
		t.Fatalf("final status = %q", status)
	}
}

func TestEarlyExit(t *testing.T) {
	t.Parallel()

	a, _ := newTestAgent()

	// Exiting before any round skips the round recap.
	got := call(t, a, ToolHandleEarlyExit, nil)
	if !strings.Contains(got, "No problem, contestant!") || strings.Contains(got, "You did great") {
		t.Fatalf("pre-round exit = %q", got)
	}

	a, _ = newTestAgent()
	call(t, a, ToolSetPlayerName, map[string]any{"name": "Lena"})
	call(t, a, ToolStartNextRound, nil)

	got = call(t, a, ToolHandleEarlyExit, nil)
	if !strings.Contains(got, "No problem, Lena!") || !strings.Contains(got, "You did great in the 1 round we played!") {
		t.Fatalf("mid-game exit = %q", got)
	}
}

func TestRestartKeepsPlayerName(t *testing.T) {
	t.Parallel()

	a, _ := newTestAgent()
	call(t, a, ToolSetPlayerName, map[string]any{"name": "Ravi"})
	call(t, a, ToolStartNextRound, nil)
	call(t, a, ToolReactToPerformance, map[string]any{"reaction": "Loved it."})

	got := call(t, a, ToolRestartGame, nil)
	if !strings.Contains(got, "Welcome to IMPROV BATTLE!") {
		t.Fatalf("restart reply = %q", got)
	}

	status := call(t, a, ToolGetGameStatus, nil)
	if !strings.Contains(status, "Player: Ravi") || !strings.Contains(status, "Round: 0/3") {
		t.Fatalf("status after restart = %q", status)
	}
	if strings.Contains(status, "Scenarios completed") {
		t.Fatalf("rounds not cleared: %q", status)
	}
}
