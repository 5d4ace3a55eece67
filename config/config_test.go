// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/z5labs/zconfig/lifecycle"
	"github.com/z5labs/zconfig/node"
	"github.com/z5labs/zconfig/secret"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) {
	return "", false
}

func parseString(t *testing.T, f Format, doc string, opts ...Option) (*Configuration, error) {
	t.Helper()
	return Parse(context.Background(), "test", strings.NewReader(doc), Settings{Format: f, LookupEnv: noEnv}, "", opts...)
}

func valueAt(t *testing.T, cfg *Configuration, path string) string {
	t.Helper()
	n, err := cfg.Find(path)
	require.NoError(t, err)
	require.Equal(t, node.KindValue, n.Kind())
	return n.Value()
}

type closeSpy struct {
	io.Reader
	closed bool
	err    error
}

func (c *closeSpy) Close() error {
	c.closed = true
	return c.err
}

func TestParse(t *testing.T) {
	t.Run("will resolve variables", func(t *testing.T) {
		t.Run("if the root path node defines them as properties", func(t *testing.T) {
			cfg, err := parseString(t, JSON, `{
				"zconfig": {
					"@properties": {"env": "prod"},
					"client": {"host": "${env}.example.com"}
				}
			}`)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "prod.example.com", valueAt(t, cfg, "zconfig.client.host")) {
				return
			}
		})

		t.Run("if a nearer path node overrides an inherited property", func(t *testing.T) {
			cfg, err := parseString(t, JSON, `{
				"zconfig": {
					"@properties": {"env": "prod", "domain": "example.com"},
					"client": {
						"@properties": {"env": "dev"},
						"host": "${env}.${domain}"
					},
					"server": {"host": "${env}.${domain}"}
				}
			}`)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "dev.example.com", valueAt(t, cfg, "zconfig.client.host")) {
				return
			}
			if !assert.Equal(t, "prod.example.com", valueAt(t, cfg, "zconfig.server.host")) {
				return
			}
		})

		t.Run("if properties reference properties of an ancestor", func(t *testing.T) {
			cfg, err := parseString(t, JSON, `{
				"zconfig": {
					"@properties": {"env": "prod"},
					"client": {
						"@properties": {"host": "${env}.example.com"},
						"url": "https://${host}"
					}
				}
			}`)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "https://prod.example.com", valueAt(t, cfg, "zconfig.client.url")) {
				return
			}
		})

		t.Run("if only the declaring subtree sees its properties", func(t *testing.T) {
			cfg, err := parseString(t, JSON, `{
				"zconfig": {
					"a": {"@properties": {"p": "one"}, "v": "${p}"},
					"b": {"v": "${p}"}
				}
			}`)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "one", valueAt(t, cfg, "zconfig.a.v")) {
				return
			}
			if !assert.Equal(t, "${p}", valueAt(t, cfg, "zconfig.b.v")) {
				return
			}
		})

		t.Run("if the environment defines them", func(t *testing.T) {
			settings := Settings{
				Format: JSON,
				LookupEnv: func(name string) (string, bool) {
					if name == "HOST" {
						return "localhost", true
					}
					return "", false
				},
			}
			r := strings.NewReader(`{"zconfig": {"host": "${HOST}", "list": ["${HOST}", "b"]}}`)
			cfg, err := Parse(context.Background(), "test", r, settings, "")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "localhost", valueAt(t, cfg, "zconfig.host")) {
				return
			}
			if !assert.Equal(t, "localhost", valueAt(t, cfg, "zconfig.list.0")) {
				return
			}
		})
	})

	t.Run("will leave variables untouched", func(t *testing.T) {
		t.Run("if nothing defines them", func(t *testing.T) {
			cfg, err := parseString(t, JSON, `{"zconfig": {"host": "${missing}.example.com"}}`)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "${missing}.example.com", valueAt(t, cfg, "zconfig.host")) {
				return
			}
		})

		t.Run("if the value is encrypted", func(t *testing.T) {
			cfg, err := parseString(t, JSON, `{
				"zconfig": {
					"@properties": {"x": "y"},
					"password": {"@value": "${x}", "@encrypted": true}
				}
			}`)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "${x}", valueAt(t, cfg, "zconfig.password")) {
				return
			}
		})
	})

	t.Run("will seal the tree and mark the configuration loaded", func(t *testing.T) {
		cfg, err := parseString(t, JSON, `{"zconfig": {"host": "localhost"}}`)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.True(t, cfg.Loaded()) {
			return
		}
		if !assert.Nil(t, cfg.CheckLoaded()) {
			return
		}
		if !assert.True(t, cfg.Tree().Sealed()) {
			return
		}

		_, err = cfg.Root().AddValue("port", "8080")
		if !assert.ErrorIs(t, err, node.ErrSealed) {
			return
		}
	})

	t.Run("will close the source", func(t *testing.T) {
		t.Run("if it implements io.Closer", func(t *testing.T) {
			src := &closeSpy{Reader: strings.NewReader(`{"zconfig": {}}`)}
			_, err := Parse(context.Background(), "test", src, Settings{Format: JSON}, "")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.True(t, src.closed) {
				return
			}
		})
	})

	t.Run("will return a ConfigurationError", func(t *testing.T) {
		t.Run("if the format is not supported", func(t *testing.T) {
			_, err := parseString(t, Format("csv"), `a,b`)

			var cerr *ConfigurationError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			var ferr UnsupportedFormatError
			if !assert.ErrorAs(t, err, &ferr) {
				return
			}
			if !assert.Equal(t, Format("csv"), ferr.Format) {
				return
			}
		})

		t.Run("if the JSON is malformed", func(t *testing.T) {
			_, err := parseString(t, JSON, `{"zconfig": `)

			var jerr InvalidJSONError
			if !assert.ErrorAs(t, err, &jerr) {
				return
			}
		})

		t.Run("if the YAML is malformed", func(t *testing.T) {
			_, err := parseString(t, YAML, "zconfig:\n  a: [1, 2\n")

			var yerr InvalidYAMLError
			if !assert.ErrorAs(t, err, &yerr) {
				return
			}
		})

		t.Run("if the XML is malformed", func(t *testing.T) {
			_, err := parseString(t, XML, `<zconfig><client></zconfig>`)

			var xerr InvalidXMLError
			if !assert.ErrorAs(t, err, &xerr) {
				return
			}
		})

		t.Run("if the document has more than one top level entry", func(t *testing.T) {
			_, err := parseString(t, JSON, `{"a": {}, "b": {}}`)

			var derr InvalidDocumentError
			if !assert.ErrorAs(t, err, &derr) {
				return
			}
			if !assert.ErrorIs(t, err, errNoRoot) {
				return
			}
		})

		t.Run("if the top level entry is not an object", func(t *testing.T) {
			_, err := parseString(t, JSON, `{"zconfig": "value"}`)
			if !assert.ErrorIs(t, err, errRootNotPath) {
				return
			}
		})

		t.Run("if a validation rule fails", func(t *testing.T) {
			settings := Settings{
				Format: JSON,
				Rules: []node.Rule{
					node.RequireChild("zconfig.client", "host", node.KindValue),
				},
			}
			r := strings.NewReader(`{"zconfig": {"client": {"port": "8080"}}}`)
			_, err := Parse(context.Background(), "test", r, settings, "")

			var cerr *ConfigurationError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			var merr *node.MissingChildError
			if !assert.ErrorAs(t, err, &merr) {
				return
			}
			if !assert.Equal(t, "host", merr.Name) {
				return
			}
		})

		t.Run("if the document version is newer than requested", func(t *testing.T) {
			r := strings.NewReader(`{"zconfig": {"@version": "1.3.0"}}`)
			_, err := Parse(context.Background(), "test", r, Settings{Format: JSON}, "1.2.0")

			var verr VersionMismatchError
			if !assert.ErrorAs(t, err, &verr) {
				return
			}
			if !assert.Equal(t, Version("v1.3.0"), verr.Declared) {
				return
			}
		})

		t.Run("if the document version is not a semantic version", func(t *testing.T) {
			r := strings.NewReader(`{"zconfig": {"@version": "latest"}}`)
			_, err := Parse(context.Background(), "test", r, Settings{Format: JSON}, "1.2.0")

			var verr InvalidVersionError
			if !assert.ErrorAs(t, err, &verr) {
				return
			}
		})

		t.Run("if the source fails to close", func(t *testing.T) {
			closeErr := errors.New("close failed")
			src := &closeSpy{Reader: strings.NewReader(`{"zconfig": {}}`), err: closeErr}
			_, err := Parse(context.Background(), "test", src, Settings{Format: JSON}, "")
			if !assert.ErrorIs(t, err, closeErr) {
				return
			}
		})
	})
}

func TestParse_Formats(t *testing.T) {
	t.Run("will build lists, params and properties", func(t *testing.T) {
		t.Run("if the document is YAML", func(t *testing.T) {
			cfg, err := parseString(t, YAML, `
zconfig:
  "@version": 1.2.0
  "@properties":
    env: prod
  ports: [1, 2, 3]
  params:
    "@kind": params
    timeout: 5s
  nodes:
    - name: a
    - b
  empty: null
`)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, Version("v1.2.0"), cfg.Version) {
				return
			}

			ports, err := cfg.Find("zconfig.ports")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, node.KindListValue, ports.Kind()) {
				return
			}
			if !assert.Equal(t, []string{"1", "2", "3"}, ports.Values()) {
				return
			}

			params, err := cfg.Find("zconfig.params")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, node.KindKeyValue, params.Kind()) {
				return
			}
			if !assert.Equal(t, "5s", valueAt(t, cfg, "zconfig.params.timeout")) {
				return
			}

			nodes, err := cfg.Find("zconfig.nodes")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, node.KindListElement, nodes.Kind()) {
				return
			}
			if !assert.Equal(t, "a", valueAt(t, cfg, "zconfig.nodes.0.name")) {
				return
			}
			if !assert.Equal(t, "b", valueAt(t, cfg, "zconfig.nodes.1")) {
				return
			}
			if !assert.Equal(t, "", valueAt(t, cfg, "zconfig.empty")) {
				return
			}
			if !assert.Equal(t, "prod", valueAt(t, cfg, "zconfig.@properties.env")) {
				return
			}
		})

		t.Run("if the document is XML", func(t *testing.T) {
			cfg, err := parseString(t, XML, `
<zconfig version="1.0.0">
  <properties>
    <property name="env">prod</property>
    <region>eu</region>
  </properties>
  <client host="${env}.example.com">
    <params kind="params"><timeout>5s</timeout></params>
    <port>1</port>
    <port>2</port>
    <tags kind="list"><tag>${region}</tag></tags>
    <password encrypted="true">abc</password>
  </client>
</zconfig>`)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, Version("v1.0.0"), cfg.Version) {
				return
			}
			if !assert.Equal(t, "zconfig", cfg.Root().Name()) {
				return
			}
			if !assert.Equal(t, "prod.example.com", valueAt(t, cfg, "zconfig.client.host")) {
				return
			}
			if !assert.Equal(t, "5s", valueAt(t, cfg, "zconfig.client.params.timeout")) {
				return
			}

			port, err := cfg.Find("zconfig.client.port")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, []string{"1", "2"}, port.Values()) {
				return
			}

			tags, err := cfg.Find("zconfig.client.tags")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, []string{"eu"}, tags.Values()) {
				return
			}

			password, err := cfg.Find("zconfig.client.password")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.True(t, password.Encrypted()) {
				return
			}
		})

		t.Run("if the document is TOML", func(t *testing.T) {
			cfg, err := parseString(t, TOML, `
[zconfig]
name = "svc"

[zconfig."@properties"]
env = "prod"

[zconfig.client]
host = "${env}.example.com"
ports = [1, 2]
`)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "svc", valueAt(t, cfg, "zconfig.name")) {
				return
			}
			if !assert.Equal(t, "prod.example.com", valueAt(t, cfg, "zconfig.client.host")) {
				return
			}
			if !assert.Equal(t, "2", valueAt(t, cfg, "zconfig.client.ports.1")) {
				return
			}
		})

		t.Run("if the document is a properties file", func(t *testing.T) {
			cfg, err := parseString(t, Properties, "zconfig.client.host = localhost\nzconfig.client.port = 8080\n")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "localhost", valueAt(t, cfg, "zconfig.client.host")) {
				return
			}
			if !assert.Equal(t, "8080", valueAt(t, cfg, "zconfig.client.port")) {
				return
			}
		})
	})
}

func TestConfiguration_Load(t *testing.T) {
	t.Run("will return a StateError", func(t *testing.T) {
		t.Run("if the configuration is already loaded", func(t *testing.T) {
			cfg, err := parseString(t, JSON, `{"zconfig": {}}`)
			if !assert.Nil(t, err) {
				return
			}

			err = cfg.Load(context.Background())

			var serr *lifecycle.StateError
			if !assert.ErrorAs(t, err, &serr) {
				return
			}
			if !assert.Equal(t, lifecycle.Available, serr.Actual) {
				return
			}
		})
	})

	t.Run("will resolve a programmatically built tree", func(t *testing.T) {
		tree := node.NewTree("zconfig")
		props, err := tree.Root().SetProperties()
		require.NoError(t, err)
		_, err = props.AddValue("env", "prod")
		require.NoError(t, err)
		client, err := tree.Root().AddPath("client")
		require.NoError(t, err)
		_, err = client.AddValue("host", "${env}.example.com")
		require.NoError(t, err)

		cfg, err := New("test", tree, Settings{LookupEnv: noEnv})
		require.NoError(t, err)
		if !assert.False(t, cfg.Loaded()) {
			return
		}

		err = cfg.Load(context.Background())
		if !assert.Nil(t, err) {
			return
		}
		if !assert.Equal(t, "prod.example.com", valueAt(t, cfg, "zconfig.client.host")) {
			return
		}
	})
}

func TestConfiguration_ScopeAt(t *testing.T) {
	cfg, err := parseString(t, JSON, `{
		"zconfig": {
			"@properties": {"env": "prod", "region": "eu"},
			"client": {
				"@properties": {"env": "dev"},
				"host": "h"
			}
		}
	}`)
	require.NoError(t, err)

	host, err := cfg.Find("zconfig.client.host")
	require.NoError(t, err)

	scope := cfg.ScopeAt(host)
	env, _ := scope.Lookup("env")
	region, _ := scope.Lookup("region")
	if !assert.Equal(t, "dev", env) {
		return
	}
	if !assert.Equal(t, "eu", region) {
		return
	}
}

func TestConfiguration_Decrypt(t *testing.T) {
	c, err := secret.New("hunter2")
	require.NoError(t, err)
	ciphertext, err := c.Encrypt("s3cret")
	require.NoError(t, err)

	doc := `{"zconfig": {"password": {"@value": "` + ciphertext + `", "@encrypted": true}, "user": "guest"}}`

	t.Run("will return the plain text", func(t *testing.T) {
		t.Run("if the configuration was parsed with the password", func(t *testing.T) {
			cfg, err := parseString(t, JSON, doc, WithPassword("hunter2"))
			require.NoError(t, err)

			n, err := cfg.Find("zconfig.password")
			require.NoError(t, err)

			v, err := cfg.Decrypt(n)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "s3cret", v) {
				return
			}
		})

		t.Run("if the value is not encrypted", func(t *testing.T) {
			cfg, err := parseString(t, JSON, doc)
			require.NoError(t, err)

			n, err := cfg.Find("zconfig.user")
			require.NoError(t, err)

			v, err := cfg.Decrypt(n)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "guest", v) {
				return
			}
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if no password was given", func(t *testing.T) {
			cfg, err := parseString(t, JSON, doc)
			require.NoError(t, err)

			n, err := cfg.Find("zconfig.password")
			require.NoError(t, err)

			_, err = cfg.Decrypt(n)
			if !assert.ErrorIs(t, err, ErrNoPassword) {
				return
			}
		})

		t.Run("if the password is wrong", func(t *testing.T) {
			cfg, err := parseString(t, JSON, doc, WithPassword("wrong"))
			require.NoError(t, err)

			n, err := cfg.Find("zconfig.password")
			require.NoError(t, err)

			_, err = cfg.Decrypt(n)

			var derr secret.DecryptError
			if !assert.ErrorAs(t, err, &derr) {
				return
			}
		})
	})
}
