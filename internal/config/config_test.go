package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"meclust/internal/align"
)

func TestDefaultsLoad(t *testing.T) {
	v := NewViper(filepath.Join(t.TempDir(), "absent.yaml"))
	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, align.DefaultClasses, c.ClusterSettings().Classes)
	assert.True(t, c.ClusterSettings().AssumeSorted)
	assert.Equal(t, "ME", c.Tags().Mobile)
}

func TestReadFileExplicitMissing(t *testing.T) {
	v := NewViper(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, ReadFile(v, true))
}

func TestReadFileYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "meclust.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
cluster:
  window: 250
  split: true
  min_reads: 3
input:
  mobile_tag: XM
logging:
  level: debug
`), 0o644))

	v := NewViper(p)
	require.NoError(t, ReadFile(v, true))
	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 250, c.Cluster.Window)
	assert.True(t, c.Cluster.Split)
	assert.Equal(t, 3, c.Cluster.MinReads)
	assert.Equal(t, "XM", c.Input.MobileTag)
	assert.Equal(t, "SN", c.Input.SampleTag)
	assert.Equal(t, "DEBUG", c.Logging.Level)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MECLUST_CLUSTER_MIN_READS", "4")
	t.Setenv("MECLUST_OUTPUT_FORMAT", "jsonl")
	c, err := Load(NewViper(filepath.Join(t.TempDir(), "absent.yaml")))
	require.NoError(t, err)
	assert.Equal(t, 4, c.Cluster.MinReads)
	assert.Equal(t, "jsonl", c.Output.Format)
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Cluster.MinReads = 0
	c.Cluster.Window = -1
	c.Input.SampleTag = "TOOLONG"
	c.Output.Format = "xml"
	c.Metrics.Addr = "not an address"

	err := c.Validate()
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	for _, f := range []string{"cluster.min_reads", "cluster.window", "input.sample_tag", "output.format", "metrics.addr"} {
		assert.True(t, fields[f], "missing %s in %v", f, err)
	}
	assert.Contains(t, err.Error(), "5 validation errors")
}

func TestValidateSingleError(t *testing.T) {
	c := Default()
	c.Cluster.NamePrefix = ""
	err := c.Validate()
	require.Error(t, err)
	assert.Equal(t, "cluster.name_prefix: must be set (got: )", err.Error())
}

func TestYAMLRoundTrip(t *testing.T) {
	out, err := Default().YAML()
	require.NoError(t, err)

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, *Default(), back)
	assert.Contains(t, string(out), "min_reads: 1")
}
