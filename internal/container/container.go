package container

import (
	"net/http"
	"path/filepath"

	"kycflow/adapters/forward"
	"kycflow/internal/aggregate"
	"kycflow/internal/api"
	"kycflow/internal/config"
	"kycflow/internal/errors"
	"kycflow/internal/kyc"
	"kycflow/internal/kycrelay"
	"kycflow/internal/normalize"
	"kycflow/ports"
)

// Services lists every service in start order
var Services = []string{config.ServiceConvert, config.ServiceBank, config.ServiceRelay, config.ServiceKYC}

// Container holds the application dependencies shared by the services
type Container struct {
	Config *config.Config

	Forwarder  ports.Forwarder
	Normalizer *normalize.Normalizer
	Aggregator *aggregate.Aggregator
	KYCRelay   *kycrelay.Relay
	Verifier   *kyc.Verifier
}

// New creates a container from validated configuration
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}

	forwarder := forward.NewClient(nil)
	return &Container{
		Config:     cfg,
		Forwarder:  forwarder,
		Normalizer: normalize.NewDefault(),
		Aggregator: aggregate.NewAggregator(aggregate.NewStore(), forwarder, cfg.Upstream.PartialTargetURL),
		KYCRelay:   kycrelay.NewRelay(forwarder, cfg.Upstream.KYCTargetURL),
		Verifier:   kyc.NewVerifier(kyc.SampleCustomers()),
	}, nil
}

// BankWorkbookPath resolves the bank workbook against the data directory
func (c *Container) BankWorkbookPath() string {
	if filepath.IsAbs(c.Config.Data.BankWorkbook) {
		return c.Config.Data.BankWorkbook
	}
	return filepath.Join(c.Config.Data.Dir, c.Config.Data.BankWorkbook)
}

// Handler builds the HTTP handler for a service
func (c *Container) Handler(service string) (http.Handler, error) {
	switch service {
	case config.ServiceConvert:
		return api.NewRouter(api.NewConvertHandler(c.Config.Data.Dir, c.Normalizer)), nil
	case config.ServiceBank:
		return api.NewRouter(api.NewBankHandler(
			c.BankWorkbookPath(),
			c.Config.Data.BankSheet,
			c.Config.Upstream.BankOnboardURL,
			c.Forwarder,
			c.Normalizer,
		)), nil
	case config.ServiceRelay:
		return api.NewRouter(api.NewRelayHandler(c.Aggregator, c.KYCRelay)), nil
	case config.ServiceKYC:
		return api.NewKYCRouter(c.Verifier), nil
	default:
		return nil, errors.InvalidInput("unknown service " + service)
	}
}

// Server builds a runnable server for a service from its configured host and port
func (c *Container) Server(service string) (*api.Server, error) {
	handler, err := c.Handler(service)
	if err != nil {
		return nil, err
	}
	listen := c.Config.Server(service)
	return api.NewServer(service, listen.Host, listen.Port, handler), nil
}
