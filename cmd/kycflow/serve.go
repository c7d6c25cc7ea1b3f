package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"kycflow/internal/config"
	"kycflow/internal/container"
	"kycflow/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type serviceCommand struct {
	name  string
	short string
	long  string
}

var (
	serviceConvert = serviceCommand{
		name:  config.ServiceConvert,
		short: "Serve workbooks as onboarding records",
		long: `Serve the workbooks of the data directory as JSON onboarding records.

Routes:
  GET /convert/{filename}   first sheet of a workbook as an array of records
  GET /list-files           workbooks available in the data directory`,
	}
	serviceBank = serviceCommand{
		name:  config.ServiceBank,
		short: "Look up applicant bank data and push it to onboarding",
		long: `Look up an applicant's bank details in the bank workbook and forward them
to BANK_ONBOARD_URL.

Routes:
  GET /bank-data/{applicant_id}`,
	}
	serviceRelay = serviceCommand{
		name:  config.ServiceRelay,
		short: "Aggregate partial applications and relay KYC details",
		long: `Merge application fragments per session and forward complete applications
to PARTIAL_TARGET_URL; forward KYC details to KYC_TARGET_URL.

Routes:
  POST /receive-partial-application?session_id={id}
  GET  /applications/{session_id}
  POST /receive-kyc-details
  GET  /kyc-transactions/{applicant_id}`,
	}
	serviceKYC = serviceCommand{
		name:  config.ServiceKYC,
		short: "Run the stub KYC verifier",
		long: `Verify customers against the built-in KYC table.

Routes:
  POST /verify-kyc`,
	}
)

type serveFlags struct {
	host  string
	port  int
	debug bool
}

func newServeCmd(svc serviceCommand) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   svc.name,
		Short: svc.short,
		Long:  svc.long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := bootstrap(&flags, cmd, svc.name)
			if err != nil {
				return err
			}
			return runServices(cmd.Context(), c, svc.name)
		},
	}

	cmd.Flags().StringVar(&flags.host, "host", "", "Listen host (default from "+envKey(svc.name, "HOST")+")")
	cmd.Flags().IntVar(&flags.port, "port", 0, "Listen port (default from "+envKey(svc.name, "PORT")+")")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Enable debug logging and gin debug mode")
	return cmd
}

func newAllCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Run every service in one process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := bootstrap(&flags, cmd, "")
			if err != nil {
				return err
			}
			return runServices(cmd.Context(), c, container.Services...)
		},
	}

	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Enable debug logging and gin debug mode")
	return cmd
}

// bootstrap loads configuration, applies flag overrides for service and sets up logging
func bootstrap(flags *serveFlags, cmd *cobra.Command, service string) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("debug") {
		cfg.App.Debug = flags.debug
	}
	if service != "" {
		listen := cfg.Server(service)
		if cmd.Flags().Changed("host") {
			listen.Host = flags.host
		}
		if cmd.Flags().Changed("port") {
			listen.Port = flags.port
		}
		cfg.Services[service] = listen
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Init(cfg.App.Name, cfg.App.LogLevel, cfg.App.Debug)
	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	return container.New(cfg)
}

// runServices serves until SIGINT/SIGTERM or until one service fails
func runServices(ctx context.Context, c *container.Container, services ...string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for _, service := range services {
		server, err := c.Server(service)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return server.Run(ctx)
		})
	}

	err := g.Wait()
	if err != nil {
		log.Error().Err(err).Msg("Service stopped with error")
	}
	return err
}

func envKey(service, suffix string) string {
	return strings.ToUpper(service) + "_" + suffix
}
