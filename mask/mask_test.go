package mask_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/rise-and-shine/errorbot/mask"
)

func newOrderedMap(pairs ...any) *orderedmap.OrderedMap[string, any] {
	om := orderedmap.New[string, any]()
	for i := 0; i < len(pairs); i += 2 {
		om.Set(pairs[i].(string), pairs[i+1])
	}
	return om
}

func assertOrderedMapEqual(t *testing.T, expected, actual *orderedmap.OrderedMap[string, any]) {
	t.Helper()

	require.NotNil(t, actual)
	require.Equal(t, expected.Len(), actual.Len(), "maps have different lengths")

	for e, a := expected.Oldest(), actual.Oldest(); e != nil && a != nil; e, a = e.Next(), a.Next() {
		assert.Equal(t, e.Key, a.Key, "key mismatch")
		assert.Equal(t, e.Value, a.Value, "value mismatch for key %s", e.Key)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty stays empty", in: "", want: ""},
		{name: "short secret fully masked", in: "abc123", want: mask.Masked},
		{name: "long secret keeps suffix", in: "eb_live_0123456789", want: "***6789"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, mask.String(tc.in))
		})
	}
}

func TestStructToOrdMap_NilInput(t *testing.T) {
	assert.Nil(t, mask.StructToOrdMap(nil))
}

func TestStructToOrdMap_ReporterConfig(t *testing.T) {
	type Reporter struct {
		APIKey  string `yaml:"api_key" mask:"true"`
		Project string `yaml:"project"`
		Disable bool   `yaml:"disable"`
	}

	result := mask.StructToOrdMap(Reporter{APIKey: "eb_live_0123456789", Project: "billing"})

	assertOrderedMapEqual(t, newOrderedMap(
		"api_key", "***6789",
		"project", "billing",
		"disable", false,
	), result)
}

func TestStructToOrdMap_NestedStruct(t *testing.T) {
	type Credentials struct {
		Username string `json:"username"`
		Token    string `json:"token" mask:"true"`
	}
	type Config struct {
		Name  string       `yaml:"name"`
		Creds *Credentials `yaml:"creds"`
		Skip  string       `yaml:"-"`
	}

	result := mask.StructToOrdMap(&Config{
		Name:  "svc",
		Creds: &Credentials{Username: "admin", Token: "tok"},
		Skip:  "hidden",
	})

	assertOrderedMapEqual(t, newOrderedMap(
		"name", "svc",
		"creds.username", "admin",
		"creds.token", mask.Masked,
	), result)
}

func TestStructToOrdMap_NilPointers(t *testing.T) {
	type Credentials struct {
		Token string `mask:"true"`
	}
	type Config struct {
		Creds  *Credentials
		Secret *string `mask:"true"`
	}

	result := mask.StructToOrdMap(Config{})

	assertOrderedMapEqual(t, newOrderedMap(
		"Creds", nil,
		"Secret", nil,
	), result)
}

func TestStructToOrdMap_NonStringMasked(t *testing.T) {
	type Config struct {
		Port   int
		Secret int               `mask:"true"`
		Zero   int               `mask:"true"`
		Tags   map[string]string `mask:"true"`
	}

	result := mask.StructToOrdMap(Config{Port: 8080, Secret: 42, Tags: map[string]string{"k": "v"}})

	assertOrderedMapEqual(t, newOrderedMap(
		"Port", 8080,
		"Secret", mask.Masked,
		"Zero", 0,
		"Tags", mask.Masked,
	), result)
}
