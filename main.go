package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	agentsx "github.com/voxdesk/voxdesk/agent/agents"
	contractx "github.com/voxdesk/voxdesk/agent/contract"
	runtimex "github.com/voxdesk/voxdesk/agent/runtime"
	updatex "github.com/voxdesk/voxdesk/agent/update"
	configx "github.com/voxdesk/voxdesk/pkg/config"
	_ "github.com/voxdesk/voxdesk/pkg/logger/autoload"
	openrouterx "github.com/voxdesk/voxdesk/pkg/openrouter"
	webhookx "github.com/voxdesk/voxdesk/pkg/webhook"
)

type AppConfig struct {
	Agent      string `envconfig:"AGENT" default:"coffee"`
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")
	agentType, ok := contractx.ParseAgentType(appCfg.Agent)
	if !ok {
		log.Fatal().Str("agent", appCfg.Agent).Msg("unknown agent type")
	}

	hub := updatex.NewHub()
	sinks := updatex.Fanout{hub}
	if webhookCfg, err := configx.New[webhookx.Config]("WEBHOOK"); err == nil {
		if client, err := webhookx.NewClient(*webhookCfg); err == nil {
			sinks = append(sinks, client)
			log.Info().Str("url", webhookCfg.URL).Msg("webhook sink enabled")
		}
	}

	dataCfg := configx.MustNew[agentsx.Config]("")
	session, err := agentsx.Build(agentType, sinks, *dataCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build agent session")
	}

	openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	chatModel, err := openRouterCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create chat model")
	}

	loop, err := runtimex.New(chatModel, session.Persona.Instructions, session.Tools, session.Execute)
	if err != nil {
		log.Fatal().Err(err).Msg("start runtime")
	}

	mux := http.NewServeMux()
	mux.Handle("/updates/", hub)
	go func() {
		log.Info().Str("addr", appCfg.ListenAddr).Msg("update hub listening")
		if err := http.ListenAndServe(appCfg.ListenAddr, mux); err != nil {
			log.Error().Err(err).Msg("update hub stopped")
		}
	}()

	fmt.Printf("%s ready (agent=%s, voice=%s). Type a message, Ctrl-D to quit.\n",
		session.Persona.DisplayName, agentType, session.Persona.Voice)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		reply, err := loop.Turn(ctx, input)
		if err != nil {
			log.Error().Err(err).Msg("turn failed")
			continue
		}
		fmt.Println(reply)
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("read input")
	}
}
