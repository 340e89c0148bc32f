package classifier_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/classifier"
)

func TestReadSamples(t *testing.T) {
	type testCase struct {
		name  string
		input string
		want  []classifier.Sample
	}

	tests := []testCase{
		{
			name:  "WithHeader",
			input: "description,category_id\nCOFFEE SHOP,3\nSALARY,1\n",
			want:  []classifier.Sample{{Text: "COFFEE SHOP", Label: "3"}, {Text: "SALARY", Label: "1"}},
		},
		{
			name:  "WithoutHeader",
			input: "\"Rent, March\",Housing\n",
			want:  []classifier.Sample{{Text: "Rent, March", Label: "Housing"}},
		},
		{
			name:  "SkipsIncompleteRows",
			input: "description,category_id\n,3\nlonely\nGYM, \nGYM MEMBERSHIP,7\n",
			want:  []classifier.Sample{{Text: "GYM MEMBERSHIP", Label: "7"}},
		},
		{
			name:  "Empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := classifier.ReadSamples(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteSamples_ReadBack(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, classifier.WriteSamples(buf, samples))

	assert.True(t, strings.HasPrefix(buf.String(), "description,category_id\n"))

	got, err := classifier.ReadSamples(buf)
	require.NoError(t, err)
	assert.Equal(t, samples, got)
}
