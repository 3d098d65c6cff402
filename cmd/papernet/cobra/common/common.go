/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/hyperledger-labs/fabric-papernet/papernet/sdk"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/config"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/invoker"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/logging"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/metrics"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/network"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thedevsaddam/gojsonq"
)

var (
	// ConfigFile is the configuration file merged on top of the defaults
	ConfigFile string
	// Identity is the wallet label of the identity to act as
	Identity string
	// Wallet is the wallet directory
	Wallet string
	// Profile is the network connection profile
	Profile string
	Channel   string
	Chaincode string
	Contract  string
	// Field selects a single field of the result, e.g. drugExposure.quantity
	Field string
	// DumpMetrics prints the collected metrics after the command
	DumpMetrics bool

	// Customize is applied to the SDK before it is installed
	Customize func(*sdk.SDK) error
)

var logger = logging.MustGetLogger("papernet.cli")

// AddFlags adds the flags shared by every ledger command
func AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&ConfigFile, "config", "c", "", "configuration file")
	flags.StringVarP(&Identity, "identity", "u", "", "wallet label of the identity to act as")
	flags.StringVarP(&Wallet, "wallet", "w", "", "wallet directory")
	flags.StringVarP(&Profile, "profile", "p", "", "network connection profile")
	flags.StringVar(&Channel, "channel", "", "channel name")
	flags.StringVar(&Chaincode, "chaincode", "", "chaincode name")
	flags.StringVar(&Contract, "contract", "", "contract name inside the chaincode")
	flags.StringVarP(&Field, "field", "f", "", "print a single field of the result")
	flags.BoolVar(&DumpMetrics, "metrics", false, "print metrics in prometheus text format when done")
}

// Load builds the SDK out of the configuration file and the command line
func Load(cmd *cobra.Command) (*sdk.SDK, error) {
	v, err := config.Load(ConfigFile)
	if err != nil {
		return nil, err
	}
	for key, flag := range map[string]string{
		config.IdentityKey:  "identity",
		config.WalletKey:    "wallet",
		config.ProfileKey:   "profile",
		config.ChannelKey:   "channel",
		config.ChaincodeKey: "chaincode",
		config.ContractKey:  "contract",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}
	if DumpMetrics {
		v.Set(config.MetricsProviderKey, metrics.Prometheus)
	}

	s, err := sdk.New(v)
	if err != nil {
		return nil, err
	}
	if Customize != nil {
		if err := Customize(s); err != nil {
			return nil, errors.Wrap(err, "failed customizing sdk")
		}
	}
	if err := s.Install(); err != nil {
		return nil, err
	}
	return s, nil
}

// Run executes f against the configured contract and prints its result
func Run(cmd *cobra.Command, f func(ctx context.Context, inv *invoker.Invoker, c *network.ContractHandle) (any, error)) error {
	// Parsing of the command line is done so silence cmd usage
	cmd.SilenceUsage = true

	s, err := Load(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warnf("failed releasing sdk resources: %s", err)
		}
	}()
	var res any
	err = s.Execute(cmd.Context(), func(ctx context.Context, inv *invoker.Invoker, c *network.ContractHandle) error {
		var err error
		res, err = f(ctx, inv, c)
		return err
	})
	if err != nil {
		return err
	}
	if err := Print(cmd.OutOrStdout(), res, Field); err != nil {
		return err
	}
	if DumpMetrics {
		return metrics.Dump(cmd.OutOrStdout())
	}
	return nil
}

// Print writes v as indented JSON, or only the selected field
func Print(w io.Writer, v any, field string) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed encoding result")
	}
	if len(field) == 0 {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}
	res := gojsonq.New().FromString(string(raw)).Find(field)
	if res == nil {
		return errors.Errorf("field [%s] not found in result", field)
	}
	switch r := res.(type) {
	case string:
		_, err = fmt.Fprintln(w, r)
	case float64:
		_, err = fmt.Fprintln(w, strconv.FormatFloat(r, 'f', -1, 64))
	default:
		raw, err := json.Marshal(r)
		if err != nil {
			return errors.Wrapf(err, "failed encoding field [%s]", field)
		}
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}
	return err
}

// NoArgs rejects positional arguments
func NoArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return errors.New("trailing args detected")
	}
	return nil
}
