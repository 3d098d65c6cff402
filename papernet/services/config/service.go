/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"fmt"
	"time"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const (
	RootKey = "papernet"

	IdentityKey          = RootKey + ".identity"
	WalletKey            = RootKey + ".wallet"
	ProfileKey           = RootKey + ".profile"
	ChannelKey           = RootKey + ".channel"
	ChaincodeKey         = RootKey + ".chaincode"
	ContractKey          = RootKey + ".contract"
	DiscoveryKey         = RootKey + ".discovery"
	DiscoveryEnabledKey  = DiscoveryKey + ".enabled"
	AsLocalhostKey       = DiscoveryKey + ".asLocalhost"
	ConnectTimeout       = RootKey + ".timeouts.connect"
	EvaluateTimeout      = RootKey + ".timeouts.evaluate"
	EndorseTimeout       = RootKey + ".timeouts.endorse"
	SubmitTimeout        = RootKey + ".timeouts.submit"
	CommitStatusTimeout  = RootKey + ".timeouts.commitStatus"
	LoggingSpecKey       = RootKey + ".logging.spec"
	LoggingFormatKey     = RootKey + ".logging.format"
	MetricsProviderKey   = RootKey + ".metrics.provider"
	IdentityCacheSizeKey = RootKey + ".identityCache.size"

	DefaultChannel             = "mychannel"
	DefaultChaincode           = "papercontract"
	DefaultContract            = "org.papernet.commercialpaper"
	DefaultConnectTimeout      = 10 * time.Second
	DefaultEvaluateTimeout     = 5 * time.Second
	DefaultEndorseTimeout      = 15 * time.Second
	DefaultSubmitTimeout       = 5 * time.Second
	DefaultCommitStatusTimeout = 1 * time.Minute
	DefaultMetricsProvider     = "disabled"
	DefaultIdentityCacheSize   = 100
)

// Provider is the source of configuration values. *viper.Viper satisfies it.
type Provider interface {
	Get(key string) interface{}
	GetString(key string) string
	GetInt(key string) int
	GetDuration(key string) time.Duration
	IsSet(key string) bool
}

// Discovery selects how gateway peers are found.
type Discovery struct {
	// Enabled lets the connector fail over to peers of other organizations
	Enabled bool `mapstructure:"enabled"`
	// AsLocalhost rewrites every profile address to the loopback interface
	AsLocalhost bool `mapstructure:"asLocalhost"`
}

// Service model the configuration service for the papernet gateway
type Service struct {
	cp Provider
}

// NewService creates a new Service configuration.
func NewService(cp Provider) *Service {
	return &Service{cp: cp}
}

func (s *Service) Identity() string {
	return s.cp.GetString(IdentityKey)
}

func (s *Service) WalletPath() string {
	return s.cp.GetString(WalletKey)
}

func (s *Service) ProfilePath() string {
	return s.cp.GetString(ProfileKey)
}

func (s *Service) Channel() string {
	return s.stringOr(ChannelKey, DefaultChannel)
}

func (s *Service) Chaincode() string {
	return s.stringOr(ChaincodeKey, DefaultChaincode)
}

// Contract returns the contract name inside the chaincode. It can be set to empty explicitly
// to address the chaincode default contract.
func (s *Service) Contract() string {
	if s.cp.IsSet(ContractKey) {
		return s.cp.GetString(ContractKey)
	}
	return DefaultContract
}

func (s *Service) LoggingSpec() string {
	return s.cp.GetString(LoggingSpecKey)
}

func (s *Service) LoggingFormat() string {
	return s.cp.GetString(LoggingFormatKey)
}

func (s *Service) MetricsProvider() string {
	return s.stringOr(MetricsProviderKey, DefaultMetricsProvider)
}

func (s *Service) IdentityCacheSize() int {
	if v := s.cp.GetInt(IdentityCacheSizeKey); v > 0 {
		return v
	}
	return DefaultIdentityCacheSize
}

// Discovery decodes the discovery section. Missing keys default to false.
// Each option is looked up on its own so that environment variables can override it.
func (s *Service) Discovery() (*Discovery, error) {
	return ToDiscovery(map[string]interface{}{
		"enabled":     s.cp.Get(DiscoveryEnabledKey),
		"asLocalhost": s.cp.Get(AsLocalhostKey),
	})
}

func (s *Service) Timeouts() driver.Timeouts {
	return driver.Timeouts{
		Connect:      s.durationOr(ConnectTimeout, DefaultConnectTimeout),
		Evaluate:     s.durationOr(EvaluateTimeout, DefaultEvaluateTimeout),
		Endorse:      s.durationOr(EndorseTimeout, DefaultEndorseTimeout),
		Submit:       s.durationOr(SubmitTimeout, DefaultSubmitTimeout),
		CommitStatus: s.durationOr(CommitStatusTimeout, DefaultCommitStatusTimeout),
	}
}

// Validate checks that the values needed to open a session are present
func (s *Service) Validate() error {
	for _, key := range []string{IdentityKey, WalletKey, ProfileKey} {
		if len(s.cp.GetString(key)) == 0 {
			return errors.Errorf("missing configuration value [%s]", key)
		}
	}
	if _, err := s.Discovery(); err != nil {
		return err
	}
	return nil
}

func (s *Service) String() string {
	d, _ := s.Discovery()
	if d == nil {
		d = &Discovery{}
	}
	return fmt.Sprintf("identity [%s], profile [%s], contract [%s:%s:%s], discovery [enabled: %v, asLocalhost: %v]",
		s.Identity(), s.ProfilePath(), s.Channel(), s.Chaincode(), s.Contract(), d.Enabled, d.AsLocalhost)
}

func (s *Service) stringOr(key, def string) string {
	if v := s.cp.GetString(key); len(v) > 0 {
		return v
	}
	return def
}

func (s *Service) durationOr(key string, def time.Duration) time.Duration {
	if v := s.cp.GetDuration(key); v > 0 {
		return v
	}
	return def
}

// ToDiscovery converts the passed boxed value to Discovery
func ToDiscovery(boxed interface{}) (*Discovery, error) {
	opts := &Discovery{}
	if boxed == nil {
		return opts, nil
	}
	config := &mapstructure.DecoderConfig{
		WeaklyTypedInput: true, // allow "true"/"false" strings coming from env variables
		Result:           opts,
	}
	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return nil, errors.Wrap(err, "failed creating discovery decoder")
	}
	if err := decoder.Decode(boxed); err != nil {
		return nil, errors.Wrapf(err, "invalid discovery configuration [%v]", boxed)
	}
	return opts, nil
}
