/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package med

import (
	"context"

	"github.com/hyperledger-labs/fabric-papernet/cmd/papernet/cobra/common"
	"github.com/hyperledger-labs/fabric-papernet/papernet/records/medcheck"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/invoker"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/network"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type key struct {
	doctor  string
	checkID string
}

func (k *key) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&k.doctor, "doctor", "Garcia", "doctor in charge of the check")
	flags.StringVar(&k.checkID, "check", "001", "check id")
}

// record holds the flags of create and update. Defaults differ between the two.
type record struct {
	key
	person   medcheck.Person
	exposure medcheck.DrugExposure
}

type defaults struct {
	name, drug, dosage, diagnosis string
	quantity                      uint64
}

func (r *record) addFlags(flags *pflag.FlagSet, d defaults) {
	r.key.addFlags(flags)
	flags.StringVar(&r.person.Name, "name", d.name, "patient name")
	flags.StringVar(&r.person.LastName, "last-name", "Perez", "patient last name")
	flags.StringVar(&r.person.BirthDate, "birth-date", "1992-06-08", "patient birth date")
	flags.StringVar(&r.person.Ethnicity, "ethnicity", "white", "patient ethnicity")
	flags.StringVar(&r.person.Gender, "gender", "male", "patient gender")
	flags.StringVar(&r.person.DeathDate, "death-date", "", "patient death date, if any")
	flags.StringVar(&r.exposure.DrugName, "drug", d.drug, "drug name")
	flags.StringVar(&r.exposure.StartDate, "start-date", "2019-06-18", "start of the exposure")
	flags.StringVar(&r.exposure.EndDate, "end-date", "2019-06-22", "end of the exposure")
	flags.StringVar(&r.exposure.Dosage, "dosage", d.dosage, "dosage description")
	flags.Uint64Var(&r.exposure.Quantity, "quantity", d.quantity, "quantity of drug")
	flags.StringVar(&r.exposure.Diagnosis, "diagnosis", d.diagnosis, "diagnosis")
}

// Cmd returns the Cobra Command for the medical check operations
func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "med",
		Short: "Record and read medical checks.",
	}
	cmd.AddCommand(createCmd(), updateCmd(), queryCmd())
	return cmd
}

func createCmd() *cobra.Command {
	r := &record{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a new medical check.",
		Args:  common.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx context.Context, inv *invoker.Invoker, c *network.ContractHandle) (any, error) {
				return invoker.Submit[*medcheck.MedicalCheck](ctx, inv, c, medcheck.Create{
					Doctor:       r.doctor,
					CheckID:      r.checkID,
					Person:       r.person,
					DrugExposure: r.exposure,
				})
			})
		},
	}
	r.addFlags(cmd.Flags(), defaults{
		name:      "Juan",
		drug:      "Hydrocodone",
		dosage:    "2 pills per day",
		quantity:  20,
		diagnosis: "Injured muscles from the back due to a car crash.",
	})
	return cmd
}

func updateCmd() *cobra.Command {
	r := &record{}
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace the person and drug exposure of an existing check.",
		Args:  common.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx context.Context, inv *invoker.Invoker, c *network.ContractHandle) (any, error) {
				return invoker.Submit[*medcheck.MedicalCheck](ctx, inv, c, medcheck.Update{
					Doctor:       r.doctor,
					CheckID:      r.checkID,
					Person:       r.person,
					DrugExposure: r.exposure,
				})
			})
		},
	}
	r.addFlags(cmd.Flags(), defaults{
		name:      "Felipe",
		drug:      "Amoxicillin",
		dosage:    "Dosis description.",
		quantity:  12,
		diagnosis: "Patient was diagnosed with xxx desease.",
	})
	return cmd
}

func queryCmd() *cobra.Command {
	k := &key{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Read a medical check.",
		Args:  common.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx context.Context, inv *invoker.Invoker, c *network.ContractHandle) (any, error) {
				return invoker.Evaluate[*medcheck.MedicalCheck](ctx, inv, c, medcheck.Query{
					Doctor:  k.doctor,
					CheckID: k.checkID,
				})
			})
		},
	}
	k.addFlags(cmd.Flags())
	return cmd
}
