package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/spendwise/internal/classifier"
	"github.com/MrJamesThe3rd/spendwise/internal/config"
)

func newTrainCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "train <dataset.csv>",
		Short: "Train a classifier from a description,category_id CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}

				output = cfg.Classifier.ModelPath
			}

			return runTrain(cmd.OutOrStdout(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "model path (defaults to CLASSIFIER_MODEL_PATH)")

	return cmd
}

func runTrain(out io.Writer, datasetPath, modelPath string) error {
	f, err := os.Open(datasetPath)
	if err != nil {
		return fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	samples, err := classifier.ReadSamples(f)
	if err != nil {
		return err
	}

	model, err := classifier.Train(samples)
	if err != nil {
		return err
	}

	if err := model.Save(modelPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "trained on %d samples, %d labels, wrote %s\n", len(samples), len(model.Labels()), modelPath)

	return nil
}
