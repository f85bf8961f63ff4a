// Package autoload configures the global logger from the environment
// as a side effect of import, before any package-level loggers are used.
package autoload

import (
	"github.com/voxdesk/voxdesk/pkg/config"
	logx "github.com/voxdesk/voxdesk/pkg/logger"
)

func init() {
	logx.Init(*config.MustNew[logx.Config]("log"))
}
