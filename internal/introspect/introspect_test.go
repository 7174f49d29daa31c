package introspect

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const enumPkg = "github.com/seitarof/gen-ext/testdata/extenum"

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("example.com/a/b.Color")
	require.NoError(t, err)
	assert.Equal(t, EnumRef{PkgPath: "example.com/a/b", Name: "Color"}, ref)
	assert.Equal(t, "example.com/a/b.Color", ref.FQN())

	for _, bad := range []string{"", "Color", ".Color", "pkg."} {
		_, err := ParseRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestStatic_StringEnum(t *testing.T) {
	s := NewStatic("")
	enum, err := s.Introspect(context.Background(), EnumRef{PkgPath: enumPkg, Name: "Direction"})
	require.NoError(t, err)

	assert.Equal(t, "string", enum.UnderlyingType)
	require.Len(t, enum.Constants, 4)

	names := make([]string, len(enum.Constants))
	for i, c := range enum.Constants {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"North", "East", "South", "West"}, names)
	assert.Equal(t, "E", enum.Constants[1].Value)
	assert.True(t, enum.Constants[1].Default)
	assert.False(t, enum.Constants[0].Default)
	assert.True(t, enum.Constants[3].Deprecated)
	assert.True(t, enum.Constants[0].Pos.IsValid())
}

func TestStatic_IntEnumSkipsUnexported(t *testing.T) {
	s := NewStatic("")
	enum, err := s.Introspect(context.Background(), EnumRef{PkgPath: enumPkg, Name: "Speed"})
	require.NoError(t, err)

	assert.Equal(t, "int", enum.UnderlyingType)
	require.Len(t, enum.Constants, 2)
	assert.Equal(t, "1", enum.Constants[0].Value)
	assert.Equal(t, "Fast", enum.Constants[1].Name)
	assert.Equal(t, "2", enum.Constants[1].Value)
}

func TestStatic_Errors(t *testing.T) {
	s := NewStatic("")
	ctx := context.Background()

	tests := []struct {
		name string
		want error
	}{
		{name: "Missing", want: ErrNotFound},
		{name: "Plain", want: ErrNoAccessor},
		{name: "Empty", want: ErrNotEnum},
		{name: "Level", want: ErrComputedAccessor},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Introspect(ctx, EnumRef{PkgPath: enumPkg, Name: tc.name})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestProbeSource(t *testing.T) {
	enum := &Enum{
		Ref: EnumRef{PkgPath: enumPkg, Name: "Direction"},
		Constants: []Constant{
			{Name: "North"},
			{Name: "East"},
		},
	}
	src, err := ProbeSource(enum)
	require.NoError(t, err)

	text := string(src)
	assert.True(t, strings.HasPrefix(text, "// Code generated by gen-ext. DO NOT EDIT."))
	assert.Contains(t, text, "package main")
	assert.Contains(t, text, `"`+enumPkg+`"`)
	assert.Contains(t, text, `"North": fmt.Sprint(extenum.North.ToUnderlyingValue())`)
	assert.Contains(t, text, "json.NewEncoder(os.Stdout).Encode(values)")
}

func TestExec_ProbesComputedAccessor(t *testing.T) {
	dir := t.TempDir()
	var probeDir string
	run := func(_ context.Context, runDir string, args ...string) ([]byte, error) {
		assert.Equal(t, dir, runDir)
		require.Len(t, args, 2)
		assert.Equal(t, "run", args[0])
		probeDir = filepath.Join(runDir, args[1])
		src, err := os.ReadFile(filepath.Join(probeDir, "main.go"))
		require.NoError(t, err)
		assert.Contains(t, string(src), "extenum.Low.ToUnderlyingValue()")
		return []byte(`{"Low":"low","High":"high"}`), nil
	}

	e := NewExec(NewStatic(""), dir, WithRunFunc(run))
	enum, err := e.Introspect(context.Background(), EnumRef{PkgPath: enumPkg, Name: "Level"})
	require.NoError(t, err)

	assert.Equal(t, "string", enum.UnderlyingType)
	require.Len(t, enum.Constants, 2)
	assert.Equal(t, "low", enum.Constants[0].Value)
	assert.Equal(t, "high", enum.Constants[1].Value)

	_, err = os.Stat(probeDir)
	assert.True(t, os.IsNotExist(err), "probe dir should be removed")
}

func TestExec_PlainConversionSkipsProbe(t *testing.T) {
	run := func(context.Context, string, ...string) ([]byte, error) {
		t.Fatal("probe should not run for a plain conversion")
		return nil, nil
	}
	e := NewExec(NewStatic(""), t.TempDir(), WithRunFunc(run))

	for _, name := range []string{"Direction", "Speed"} {
		enum, err := e.Introspect(context.Background(), EnumRef{PkgPath: enumPkg, Name: name})
		require.NoError(t, err, name)
		assert.NotEmpty(t, enum.Constants, name)
	}
}

func TestExec_ProbeAll(t *testing.T) {
	calls := 0
	run := func(context.Context, string, ...string) ([]byte, error) {
		calls++
		return []byte(`{"North":"north","East":"east","South":"south","West":"west"}`), nil
	}

	e := NewExec(NewStatic(""), t.TempDir(), WithRunFunc(run), WithProbeAll())
	enum, err := e.Introspect(context.Background(), EnumRef{PkgPath: enumPkg, Name: "Direction"})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "east", enum.Constants[1].Value)
	assert.True(t, enum.Constants[1].Default)
}

func TestExec_MissingConstant(t *testing.T) {
	run := func(context.Context, string, ...string) ([]byte, error) {
		return []byte(`{"Low":"low"}`), nil
	}
	e := NewExec(NewStatic(""), t.TempDir(), WithRunFunc(run))
	_, err := e.Introspect(context.Background(), EnumRef{PkgPath: enumPkg, Name: "Level"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "misses constant High")
}

func TestExec_RunFailure(t *testing.T) {
	boom := errors.New("exit status 1")
	run := func(context.Context, string, ...string) ([]byte, error) {
		return nil, boom
	}
	e := NewExec(NewStatic(""), t.TempDir(), WithRunFunc(run))
	_, err := e.Introspect(context.Background(), EnumRef{PkgPath: enumPkg, Name: "Level"})
	assert.ErrorIs(t, err, boom)
}
