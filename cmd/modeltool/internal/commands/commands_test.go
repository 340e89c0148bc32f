package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/classifier"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type fakeLister struct {
	txs    []*transaction.Transaction
	err    error
	filter transaction.Filter
}

func (f *fakeLister) List(_ context.Context, filter transaction.Filter) ([]*transaction.Transaction, error) {
	f.filter = filter
	return f.txs, f.err
}

func categoryID(id category.ID) *category.ID { return &id }

func TestRunExportTraining(t *testing.T) {
	userID := uuid.New()
	lister := &fakeLister{txs: []*transaction.Transaction{
		{Description: "COFFEE SHOP", CategoryID: categoryID(3)},
		{Description: "UNKNOWN MERCHANT"},
		{Description: "SALARY, ACME", CategoryID: categoryID(1)},
	}}

	buf := &bytes.Buffer{}
	n, err := runExportTraining(context.Background(), lister, userID, buf)
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, userID, lister.filter.UserID)
	assert.Equal(t, "description,category_id\nCOFFEE SHOP,3\n\"SALARY, ACME\",1\n", buf.String())
}

func TestRunExportTraining_ListError(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}

	_, err := runExportTraining(context.Background(), lister, uuid.New(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing transactions")
}

func TestRunTrain(t *testing.T) {
	dir := t.TempDir()
	dataset := filepath.Join(dir, "dataset.csv")
	model := filepath.Join(dir, "model.gob")

	require.NoError(t, os.WriteFile(dataset, []byte(
		"description,category_id\n"+
			"COFFEE SHOP DOWNTOWN,3\n"+
			"Corner cafe coffee,3\n"+
			"SALARY ACME CORP,1\n"+
			"Monthly salary payment,1\n",
	), 0o600))

	out := &bytes.Buffer{}
	require.NoError(t, runTrain(out, dataset, model))
	assert.Contains(t, out.String(), "trained on 4 samples, 2 labels")

	loaded, err := classifier.Load(model)
	require.NoError(t, err)

	label, _ := loaded.Predict("coffee")
	assert.Equal(t, "3", label)
}

func TestRunTrain_SingleLabel(t *testing.T) {
	dir := t.TempDir()
	dataset := filepath.Join(dir, "dataset.csv")
	require.NoError(t, os.WriteFile(dataset, []byte("COFFEE,3\nTEA,3\n"), 0o600))

	err := runTrain(&bytes.Buffer{}, dataset, filepath.Join(dir, "model.gob"))
	assert.Error(t, err)
}

func TestRunTrain_MissingDataset(t *testing.T) {
	err := runTrain(&bytes.Buffer{}, filepath.Join(t.TempDir(), "nope.csv"), "model.gob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening dataset")
}
