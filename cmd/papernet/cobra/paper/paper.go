/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package paper

import (
	"context"

	"github.com/hyperledger-labs/fabric-papernet/cmd/papernet/cobra/common"
	"github.com/hyperledger-labs/fabric-papernet/papernet/records/paper"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/invoker"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/network"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// key identifies a paper on the command line
type key struct {
	issuer      string
	paperNumber string
}

func (k *key) addFlags(flags *pflag.FlagSet, defaultNumber string) {
	flags.StringVar(&k.issuer, "issuer", "MagnetoCorp", "issuer of the paper")
	flags.StringVar(&k.paperNumber, "number", defaultNumber, "paper number")
}

type terms struct {
	key
	issueDateTime    string
	maturityDateTime string
	faceValue        string
}

func (t *terms) addFlags(flags *pflag.FlagSet) {
	t.key.addFlags(flags, "00004")
	flags.StringVar(&t.issueDateTime, "issue-date", "2020-05-31", "issue date")
	flags.StringVar(&t.maturityDateTime, "maturity-date", "2020-11-30", "maturity date")
	flags.StringVar(&t.faceValue, "face-value", "5000000", "face value")
}

// Cmd returns the Cobra Command for the commercial paper operations
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paper",
		Short: "Issue, trade and redeem commercial paper.",
	}
	cmd.AddCommand(issueCmd(), createCmd(), buyCmd(), redeemCmd(), queryCmd())
	return cmd
}

func issueCmd() *cobra.Command {
	t := &terms{}
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a new paper owned by its issuer.",
		Args:  common.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx context.Context, inv *invoker.Invoker, c *network.ContractHandle) (any, error) {
				return invoker.Submit[*paper.CommercialPaper](ctx, inv, c, paper.Issue{
					Issuer:           t.issuer,
					PaperNumber:      t.paperNumber,
					IssueDateTime:    t.issueDateTime,
					MaturityDateTime: t.maturityDateTime,
					FaceValue:        paper.Amount(t.faceValue),
				})
			})
		},
	}
	t.addFlags(cmd.Flags())
	return cmd
}

func createCmd() *cobra.Command {
	t := &terms{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a new paper passing its terms as a JSON document.",
		Args:  common.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx context.Context, inv *invoker.Invoker, c *network.ContractHandle) (any, error) {
				return invoker.Submit[*paper.CommercialPaper](ctx, inv, c, paper.Create{
					Issuer:           t.issuer,
					PaperNumber:      t.paperNumber,
					IssueDateTime:    t.issueDateTime,
					MaturityDateTime: t.maturityDateTime,
					FaceValue:        paper.Amount(t.faceValue),
				})
			})
		},
	}
	t.addFlags(cmd.Flags())
	return cmd
}

func buyCmd() *cobra.Command {
	var (
		k                                       key
		currentOwner, newOwner, price, purchase string
	)
	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Move a paper to a new owner.",
		Args:  common.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx context.Context, inv *invoker.Invoker, c *network.ContractHandle) (any, error) {
				return invoker.Submit[*paper.CommercialPaper](ctx, inv, c, paper.Buy{
					Issuer:           k.issuer,
					PaperNumber:      k.paperNumber,
					CurrentOwner:     currentOwner,
					NewOwner:         newOwner,
					Price:            paper.Amount(price),
					PurchaseDateTime: purchase,
				})
			})
		},
	}
	flags := cmd.Flags()
	k.addFlags(flags, "00001")
	flags.StringVar(&currentOwner, "owner", "MagnetoCorp", "current owner of the paper")
	flags.StringVar(&newOwner, "new-owner", "DigiBank", "owner after the purchase")
	flags.StringVar(&price, "price", "4900000", "purchase price")
	flags.StringVar(&purchase, "purchase-date", "2020-05-31", "purchase date")
	return cmd
}

func redeemCmd() *cobra.Command {
	var (
		k                      key
		owner, redeemDateTime string
	)
	cmd := &cobra.Command{
		Use:   "redeem",
		Short: "Return a paper to its issuer.",
		Args:  common.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx context.Context, inv *invoker.Invoker, c *network.ContractHandle) (any, error) {
				return invoker.Submit[*paper.CommercialPaper](ctx, inv, c, paper.Redeem{
					Issuer:         k.issuer,
					PaperNumber:    k.paperNumber,
					RedeemingOwner: owner,
					RedeemDateTime: redeemDateTime,
				})
			})
		},
	}
	flags := cmd.Flags()
	k.addFlags(flags, "00001")
	flags.StringVar(&owner, "owner", "DigiBank", "owner redeeming the paper")
	flags.StringVar(&redeemDateTime, "redeem-date", "2020-11-30", "redemption date")
	return cmd
}

func queryCmd() *cobra.Command {
	k := &key{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Read the current state of a paper.",
		Args:  common.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx context.Context, inv *invoker.Invoker, c *network.ContractHandle) (any, error) {
				return invoker.Evaluate[*paper.CommercialPaper](ctx, inv, c, paper.Query{
					Issuer:      k.issuer,
					PaperNumber: k.paperNumber,
				})
			})
		},
	}
	k.addFlags(cmd.Flags(), "00001")
	return cmd
}
