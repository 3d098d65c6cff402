/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"os"

	"github.com/hyperledger-labs/fabric-papernet/cmd/papernet/cobra/common"
	"github.com/hyperledger-labs/fabric-papernet/cmd/papernet/cobra/med"
	"github.com/hyperledger-labs/fabric-papernet/cmd/papernet/cobra/paper"
	"github.com/hyperledger-labs/fabric-papernet/cmd/papernet/cobra/version"
	"github.com/spf13/cobra"
)

// The main command describes the service and
// defaults to printing the help message.
var mainCmd = &cobra.Command{
	Use:           "papernet",
	Short:         "Submit and evaluate papernet transactions.",
	Long:          `papernet connects to a Fabric gateway as a wallet identity and invokes the commercial paper and medical check contracts.`,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func main() {
	common.AddFlags(mainCmd.PersistentFlags())
	mainCmd.AddCommand(paper.Cmd())
	mainCmd.AddCommand(med.Cmd())
	mainCmd.AddCommand(version.Cmd())

	// Errors are silenced in Cobra so that the stack trace gets printed once
	if err := mainCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}
