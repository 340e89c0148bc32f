package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/spendwise/internal/classifier"
	"github.com/MrJamesThe3rd/spendwise/internal/config"
	"github.com/MrJamesThe3rd/spendwise/internal/database"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
	txStore "github.com/MrJamesThe3rd/spendwise/internal/transaction/store"
)

type transactionLister interface {
	List(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error)
}

func newExportTrainingCommand() *cobra.Command {
	var (
		user   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export-training",
		Short: "Write a user's categorized transactions as a training CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("parsing --user: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := database.New(cmd.Context(), cfg.ConnectionString())
			if err != nil {
				return err
			}
			defer db.Close()

			out := cmd.OutOrStdout()

			if output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()

				out = f
			}

			n, err := runExportTraining(cmd.Context(), transaction.NewService(txStore.New(db)), userID, out)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d samples\n", n)

			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user id (required)")
	_ = cmd.MarkFlagRequired("user")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")

	return cmd
}

func runExportTraining(ctx context.Context, txs transactionLister, userID uuid.UUID, out io.Writer) (int, error) {
	list, err := txs.List(ctx, transaction.Filter{UserID: userID})
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	samples := trainingSamples(list)

	if err := classifier.WriteSamples(out, samples); err != nil {
		return 0, err
	}

	return len(samples), nil
}

// trainingSamples keeps categorized transactions only.
func trainingSamples(txs []*transaction.Transaction) []classifier.Sample {
	samples := make([]classifier.Sample, 0, len(txs))

	for _, tx := range txs {
		if !tx.Categorized() {
			continue
		}

		samples = append(samples, classifier.Sample{
			Text:  tx.Description,
			Label: tx.CategoryID.String(),
		})
	}

	return samples
}
