package canvas

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementRoundTripsTextVariant(t *testing.T) {
	author := uuid.New()
	el := WelcomeText(author)

	data, err := json.Marshal(el)
	require.NoError(t, err)

	var back Element
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, el.UUID, back.UUID)
	assert.Equal(t, KindText, back.Kind)
	require.NotNil(t, back.Text)
	assert.Equal(t, "Hello, world", back.Text.Content)
	assert.Nil(t, back.Image)
}

func TestElementRoundTripsImageVariant(t *testing.T) {
	el := Element{
		UUID: uuid.New(),
		Kind: KindImage,
		Image: &Image{
			URL:    "https://example.com/a.png",
			ScaleX: 1,
			ScaleY: 1,
		},
	}

	data, err := json.Marshal(el)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"image"`)

	var back Element
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Image)
	assert.Equal(t, el.Image.URL, back.Image.URL)
	assert.Nil(t, back.Text)
}

func TestElementUnmarshalRejectsUnknownKind(t *testing.T) {
	var el Element
	err := json.Unmarshal([]byte(`{"uuid":"`+uuid.New().String()+`","type":"video"}`), &el)
	assert.Error(t, err)
}

func TestElementCloneIsIndependent(t *testing.T) {
	el := WelcomeText(uuid.New())
	clone := el.Clone()

	sel := uuid.New()
	clone.SelectedBy = &sel
	clone.Text.Content = "mutated"

	assert.Nil(t, el.SelectedBy)
	assert.Equal(t, "Hello, world", el.Text.Content)
}
