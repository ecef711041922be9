package features

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorizerFixedDimensionality(t *testing.T) {
	v := NewVectorizer(DefaultConfig())
	require.NoError(t, v.Fit([]string{
		"verify your account immediately",
		"meeting rescheduled to thursday",
	}))

	dim := v.Dim()
	require.Positive(t, dim)

	inputs := []string{
		"verify account",
		"completely unrelated words xylophone quartz",
		"",
		"   \t  ",
	}
	for _, input := range inputs {
		vec, err := v.Transform(input)
		require.NoError(t, err)
		assert.Len(t, vec, dim, "input %q changed dimensionality", input)
	}
}

func TestVectorizerUnknownTermsYieldZeroVector(t *testing.T) {
	v := NewVectorizer(DefaultConfig())
	require.NoError(t, v.Fit([]string{"click link to verify account"}))

	vec, err := v.Transform("xylophone quartz bramble")
	require.NoError(t, err)

	for i, w := range vec {
		assert.Zero(t, w, "dimension %d", i)
	}
}

func TestVectorizerRemovesStopWords(t *testing.T) {
	v := NewVectorizer(DefaultConfig())
	require.NoError(t, v.Fit([]string{"the account is now suspended"}))

	for _, term := range v.Vocabulary() {
		assert.NotContains(t, []string{"the", "is", "now"}, term)
	}
	assert.Contains(t, v.Vocabulary(), "account")
	assert.Contains(t, v.Vocabulary(), "suspended")
}

func TestVectorizerBuildsBigrams(t *testing.T) {
	v := NewVectorizer(DefaultConfig())
	require.NoError(t, v.Fit([]string{"verify account details"}))

	vocab := v.Vocabulary()
	assert.Contains(t, vocab, "verify account")
	assert.Contains(t, vocab, "account details")
}

func TestVectorizerMaxFeaturesCap(t *testing.T) {
	corpus := make([]string, 50)
	for i := range corpus {
		corpus[i] = fmt.Sprintf("word%da word%db word%dc word%dd", i, i, i, i)
	}

	v := NewVectorizer(Config{MaxFeatures: 20, NGramMin: 1, NGramMax: 2})
	require.NoError(t, v.Fit(corpus))
	assert.Equal(t, 20, v.Dim())
}

func TestVectorizerDeterministic(t *testing.T) {
	corpus := []string{
		"urgent verify your account now",
		"click here to claim your prize",
		"lunch tomorrow at the usual place",
	}

	a := NewVectorizer(DefaultConfig())
	b := NewVectorizer(DefaultConfig())
	require.NoError(t, a.Fit(corpus))
	require.NoError(t, b.Fit(corpus))

	assert.Equal(t, a.Vocabulary(), b.Vocabulary())

	vecA, err := a.Transform("verify account now")
	require.NoError(t, err)
	vecB, err := b.Transform("verify account now")
	require.NoError(t, err)
	assert.Equal(t, vecA, vecB)
}

func TestVectorizerStripsHTML(t *testing.T) {
	v := NewVectorizer(DefaultConfig())
	require.NoError(t, v.Fit([]string{
		`<html><body><p>verify account</p><script>alert(1)</script></body></html>`,
	}))

	vocab := v.Vocabulary()
	assert.Contains(t, vocab, "verify")
	assert.Contains(t, vocab, "account")
	assert.NotContains(t, vocab, "alert(1")
	assert.NotContains(t, vocab, "script")
}

func TestVectorizerRequiresFit(t *testing.T) {
	v := NewVectorizer(DefaultConfig())
	_, err := v.Transform("anything")
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestVectorizerRejectsEmptyCorpus(t *testing.T) {
	v := NewVectorizer(DefaultConfig())
	assert.ErrorIs(t, v.Fit(nil), ErrEmptyCorpus)
}
