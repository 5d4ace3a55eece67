// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/z5labs/zconfig/config"
	"github.com/z5labs/zconfig/lifecycle"
	"github.com/z5labs/zconfig/node"
	"github.com/z5labs/zconfig/secret"
	"github.com/z5labs/zconfig/variable"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDoc = `{
	"zconfig": {
		"@properties": {"env": "prod"},
		"client": {
			"@properties": {"suffix": "svc"},
			"host": "${env}.example.com",
			"port": "8080",
			"enabled": "true",
			"ports": ["1", "2", "3"],
			"params": {"@kind": "params", "timeout": "5s", "retries": "3"},
			"started": "2024-01-02T03:04:05Z",
			"name": "orders",
			"endpoints": [
				{"url": "https://a.example.com", "weight": "1"},
				{"url": "https://b.example.com", "weight": "2"}
			],
			"tls": {"enabled": "true"}
		}
	}
}`

func parse(t *testing.T, doc string, opts ...config.Option) *config.Configuration {
	t.Helper()
	settings := config.Settings{
		Format:    config.JSON,
		LookupEnv: func(string) (string, bool) { return "", false },
	}
	cfg, err := config.Parse(context.Background(), "test", strings.NewReader(doc), settings, "", opts...)
	require.NoError(t, err)
	return cfg
}

type endpoint struct {
	URL    string `config:"url"`
	Weight int
}

type tlsSettings struct {
	Enabled bool
}

type clientSettings struct {
	Host      string `config:"host,required"`
	Port      uint16
	Enabled   bool
	Ports     map[int64]struct{}
	PortList  []int `config:"ports"`
	Timeout   time.Duration `config:"params.timeout"`
	Params    map[string]string
	Started   time.Time `config:"started,transform=timestamp"`
	Endpoints []endpoint
	TLS       *tlsSettings `config:"tls"`
	Raw       node.Node    `config:"params"`
	Ignored   string       `config:"-"`
	Missing   string
}

func (clientSettings) ConfigPath() string {
	return "zconfig.client"
}

func TestBind(t *testing.T) {
	t.Run("will populate every field", func(t *testing.T) {
		t.Run("if the type is anchored", func(t *testing.T) {
			cfg := parse(t, testDoc)

			var s clientSettings
			s.Ignored = "untouched"
			err := Bind(context.Background(), cfg, &s)
			if !assert.Nil(t, err) {
				return
			}

			if !assert.Equal(t, "prod.example.com", s.Host) {
				return
			}
			if !assert.Equal(t, uint16(8080), s.Port) {
				return
			}
			if !assert.True(t, s.Enabled) {
				return
			}
			if !assert.Equal(t, map[int64]struct{}{1: {}, 2: {}, 3: {}}, s.Ports) {
				return
			}
			if !assert.Equal(t, []int{1, 2, 3}, s.PortList) {
				return
			}
			if !assert.Equal(t, 5*time.Second, s.Timeout) {
				return
			}
			if !assert.Equal(t, map[string]string{"timeout": "5s", "retries": "3"}, s.Params) {
				return
			}
			if !assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), s.Started.UTC()) {
				return
			}
			if !assert.Equal(t, []endpoint{{URL: "https://a.example.com", Weight: 1}, {URL: "https://b.example.com", Weight: 2}}, s.Endpoints) {
				return
			}
			if !assert.NotNil(t, s.TLS) {
				return
			}
			if !assert.True(t, s.TLS.Enabled) {
				return
			}
			if !assert.Equal(t, node.KindKeyValue, s.Raw.Kind()) {
				return
			}
			if !assert.Equal(t, "untouched", s.Ignored) {
				return
			}
			if !assert.Empty(t, s.Missing) {
				return
			}
		})

		t.Run("if the At option is given", func(t *testing.T) {
			cfg := parse(t, testDoc)

			tls, err := Into[tlsSettings](context.Background(), cfg, At("zconfig.client.tls"))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.True(t, tls.Enabled) {
				return
			}
		})
	})

	t.Run("will bind identical values", func(t *testing.T) {
		t.Run("if the same configuration is bound twice", func(t *testing.T) {
			cfg := parse(t, testDoc)

			a, err := Into[clientSettings](context.Background(), cfg)
			require.NoError(t, err)
			b, err := Into[clientSettings](context.Background(), cfg)
			require.NoError(t, err)

			if !assert.Equal(t, a, b) {
				return
			}
		})
	})

	t.Run("will bind a set", func(t *testing.T) {
		t.Run("if a list value is bound to map[int64]struct{}", func(t *testing.T) {
			cfg := parse(t, `{"zconfig": {"ids": ["1", "2", "3"]}}`)

			type ids struct {
				IDs map[int64]struct{} `config:"ids"`
			}
			v, err := Into[ids](context.Background(), cfg)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, map[int64]struct{}{1: {}, 2: {}, 3: {}}, v.IDs) {
				return
			}
		})
	})

	t.Run("will decrypt encrypted values", func(t *testing.T) {
		c, err := secret.New("hunter2")
		require.NoError(t, err)
		ciphertext, err := c.Encrypt("s3cret")
		require.NoError(t, err)

		cfg := parse(t, `{"zconfig": {"password": {"@value": "`+ciphertext+`", "@encrypted": true}}}`, config.WithPassword("hunter2"))

		type creds struct {
			Password string
		}
		v, err := Into[creds](context.Background(), cfg)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, "s3cret", v.Password) {
			return
		}
	})

	t.Run("will apply a custom transformer", func(t *testing.T) {
		t.Run("if it is registered with WithTransformer", func(t *testing.T) {
			cfg := parse(t, testDoc)

			qualify := TransformerFunc(func(raw string, scope variable.Scope) (any, error) {
				suffix, _ := scope.Lookup("suffix")
				env, _ := scope.Lookup("env")
				return raw + "-" + suffix + "-" + env, nil
			})

			type named struct {
				Name string `config:"name,transform=qualify"`
			}
			v, err := Into[named](context.Background(), cfg, At("zconfig.client"), WithTransformer("qualify", qualify))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "orders-svc-prod", v.Name) {
				return
			}
		})
	})

	t.Run("will bind the raw form", func(t *testing.T) {
		t.Run("if the field is of type any", func(t *testing.T) {
			cfg := parse(t, testDoc)

			type raw struct {
				Tls any
			}
			v, err := Into[raw](context.Background(), cfg, At("zconfig.client"))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, map[string]any{"enabled": "true"}, v.Tls) {
				return
			}
		})
	})

	t.Run("will decrypt the raw form", func(t *testing.T) {
		t.Run("if an any field holds an encrypted value", func(t *testing.T) {
			c, err := secret.New("hunter2")
			require.NoError(t, err)
			ciphertext, err := c.Encrypt("s3cret")
			require.NoError(t, err)

			doc := `{"zconfig": {"creds": {"user": "admin", "password": {"@value": "` + ciphertext + `", "@encrypted": true}}}}`
			cfg := parse(t, doc, config.WithPassword("hunter2"))

			type raw struct {
				Creds any
			}
			v, err := Into[raw](context.Background(), cfg)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, map[string]any{"user": "admin", "password": "s3cret"}, v.Creds) {
				return
			}
		})
	})

	t.Run("will return a ConfigurationError", func(t *testing.T) {
		t.Run("if a required field is missing", func(t *testing.T) {
			cfg := parse(t, `{"zconfig": {"client": {"port": "8080"}}}`)

			type settings struct {
				Hostname string `config:"hostname,required"`
				Port     int
			}
			_, err := Into[settings](context.Background(), cfg, At("zconfig.client"))

			var berr *BindingError
			if !assert.ErrorAs(t, err, &berr) {
				return
			}
			var cerr *config.ConfigurationError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			if !assert.Equal(t, "zconfig.client.hostname", cerr.Path) {
				return
			}
			var merr *MissingFieldError
			if !assert.ErrorAs(t, err, &merr) {
				return
			}
			if !assert.Equal(t, "hostname", merr.Field) {
				return
			}
			if !assert.Contains(t, err.Error(), "hostname") {
				return
			}
		})

		t.Run("if a required field is empty", func(t *testing.T) {
			cfg := parse(t, `{"zconfig": {"hostname": ""}}`)

			type settings struct {
				Hostname string `config:"hostname,required"`
			}
			_, err := Into[settings](context.Background(), cfg)

			var merr *MissingFieldError
			if !assert.ErrorAs(t, err, &merr) {
				return
			}
		})

		t.Run("if the anchor does not exist", func(t *testing.T) {
			cfg := parse(t, `{"zconfig": {"host": "x"}}`)

			var v struct{ Host string }
			err := Bind(context.Background(), cfg, &v, At("zconfig.missing"))

			var berr *BindingError
			if !assert.ErrorAs(t, err, &berr) {
				return
			}
			var cerr *config.ConfigurationError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			if !assert.Equal(t, "zconfig.missing", cerr.Path) {
				return
			}
			var nerr *node.PathNotFoundError
			if !assert.ErrorAs(t, err, &nerr) {
				return
			}
			if !assert.Empty(t, v.Host) {
				return
			}
		})

		t.Run("if the anchor is a value", func(t *testing.T) {
			cfg := parse(t, `{"zconfig": {"host": "x"}}`)

			var v struct{ Host string }
			err := Bind(context.Background(), cfg, &v, At("zconfig.host"))

			var cerr *config.ConfigurationError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			if !assert.Equal(t, "zconfig.host", cerr.Path) {
				return
			}
			var kerr *node.KindError
			if !assert.ErrorAs(t, err, &kerr) {
				return
			}
			if !assert.Equal(t, node.KindValue, kerr.Actual) {
				return
			}
		})

		t.Run("if the anchor is a list", func(t *testing.T) {
			cfg := parse(t, `{"zconfig": {"list": [{"a": "1"}]}}`)

			var v struct{ A string }
			err := Bind(context.Background(), cfg, &v, At("zconfig.list"))

			var cerr *config.ConfigurationError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			var kerr *node.KindError
			if !assert.ErrorAs(t, err, &kerr) {
				return
			}
			if !assert.Equal(t, node.KindListElement, kerr.Actual) {
				return
			}
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the target is not a pointer", func(t *testing.T) {
			cfg := parse(t, testDoc)

			err := Bind(context.Background(), cfg, clientSettings{})
			if !assert.ErrorIs(t, err, ErrNotPointer) {
				return
			}
		})

		t.Run("if the configuration is not loaded", func(t *testing.T) {
			cfg, err := config.New("test", node.NewTree("zconfig"), config.Settings{})
			require.NoError(t, err)

			var v struct{ Host string }
			err = Bind(context.Background(), cfg, &v)

			var serr *lifecycle.StateError
			if !assert.ErrorAs(t, err, &serr) {
				return
			}
			if !assert.Equal(t, lifecycle.Initialized, serr.Actual) {
				return
			}
		})

		t.Run("if a value cannot be coerced", func(t *testing.T) {
			cfg := parse(t, `{"zconfig": {"port": "eighty"}}`)

			var v struct{ Port int }
			err := Bind(context.Background(), cfg, &v)

			var terr TypeCoercionError
			if !assert.ErrorAs(t, err, &terr) {
				return
			}
			if !assert.Equal(t, "eighty", terr.Value) {
				return
			}
		})

		t.Run("if a duration is malformed", func(t *testing.T) {
			cfg := parse(t, `{"zconfig": {"timeout": "soon"}}`)

			var v struct{ Timeout time.Duration }
			err := Bind(context.Background(), cfg, &v)

			var terr TypeCoercionError
			if !assert.ErrorAs(t, err, &terr) {
				return
			}
		})

		t.Run("if the tag has an unknown option", func(t *testing.T) {
			cfg := parse(t, testDoc)

			var v struct {
				Host string `config:"host,optional"`
			}
			err := Bind(context.Background(), cfg, &v)

			var terr *InvalidTagError
			if !assert.ErrorAs(t, err, &terr) {
				return
			}
		})

		t.Run("if the transformer is unknown", func(t *testing.T) {
			cfg := parse(t, `{"zconfig": {"host": "localhost"}}`)

			var v struct {
				Host string `config:"host,transform=upper"`
			}
			err := Bind(context.Background(), cfg, &v)

			var terr *UnknownTransformerError
			if !assert.ErrorAs(t, err, &terr) {
				return
			}
			if !assert.Equal(t, "upper", terr.Name) {
				return
			}
		})

		t.Run("if the configuration is nil", func(t *testing.T) {
			var v struct{ Host string }
			err := Bind(context.Background(), nil, &v)

			var berr *BindingError
			if !assert.ErrorAs(t, err, &berr) {
				return
			}
			if !assert.ErrorIs(t, err, ErrNilConfiguration) {
				return
			}
		})

		t.Run("if a field type cannot hold configuration", func(t *testing.T) {
			cfg := parse(t, `{"zconfig": {"events": "x"}}`)

			var v struct {
				Events chan int
			}
			err := Bind(context.Background(), cfg, &v)

			var uerr *UnsupportedTypeError
			if !assert.ErrorAs(t, err, &uerr) {
				return
			}
			if !assert.Equal(t, reflect.TypeOf(v.Events), uerr.Type) {
				return
			}
		})

		t.Run("if a scalar field points at a path node", func(t *testing.T) {
			cfg := parse(t, testDoc)

			var v struct {
				Client string
			}
			err := Bind(context.Background(), cfg, &v)

			var kerr *node.KindError
			if !assert.ErrorAs(t, err, &kerr) {
				return
			}
		})
	})
}

func TestDefaultName(t *testing.T) {
	testCases := []struct {
		Field    string
		Expected string
	}{
		{Field: "Host", Expected: "host"},
		{Field: "TLS", Expected: "tLS"},
		{Field: "ConnectionName", Expected: "connectionName"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Field, func(t *testing.T) {
			require.Equal(t, testCase.Expected, defaultName(testCase.Field))
		})
	}
}
