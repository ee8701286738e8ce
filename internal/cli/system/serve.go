package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/consistency/internal/cli"
	"github.com/julianstephens/consistency/internal/server"
)

type ServeCmd struct {
	Addr string `help:"Address to listen on." default:"${addr}" env:"CONSISTENCY_ADDR"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Engine(context.Background())
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(server.RouterDependencies{
		Engine:    engine,
		StartTime: time.Now(),
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.Printf("Serving the consistency API on http://%s\n", c.Addr)
	return server.Serve(runCtx, c.Addr, router)
}
