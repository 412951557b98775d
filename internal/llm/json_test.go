package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestUnmarshalLoosePlain(t *testing.T) {
	var out jsonPayload
	require.NoError(t, UnmarshalLoose(`{"name":"algebra","count":3}`, &out))
	assert.Equal(t, jsonPayload{Name: "algebra", Count: 3}, out)
}

func TestUnmarshalLooseCodeFence(t *testing.T) {
	raw := "```json\n{\"name\":\"algebra\",\"count\":3}\n```"
	var out jsonPayload
	require.NoError(t, UnmarshalLoose(raw, &out))
	assert.Equal(t, "algebra", out.Name)
}

func TestUnmarshalLooseSurroundingProse(t *testing.T) {
	raw := `Here is the result you asked for:
{"name":"algebra","count":3}
Let me know if you need anything else.`
	var out jsonPayload
	require.NoError(t, UnmarshalLoose(raw, &out))
	assert.Equal(t, 3, out.Count)
}

func TestUnmarshalLooseArray(t *testing.T) {
	raw := "Sure! ```\n[{\"name\":\"a\",\"count\":1},{\"name\":\"b\",\"count\":2}]\n```"
	var out []jsonPayload
	require.NoError(t, UnmarshalLoose(raw, &out))
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[1].Name)
}

func TestUnmarshalLooseInvalid(t *testing.T) {
	var out jsonPayload
	err := UnmarshalLoose("I could not produce JSON this time.", &out)
	var incomplete *IncompleteArtifactError
	assert.ErrorAs(t, err, &incomplete)
}
