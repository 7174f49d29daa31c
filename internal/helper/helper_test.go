package helper

import (
	"context"
	"errors"
	"go/types"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seitarof/gen-ext/internal/introspect"
	"github.com/seitarof/gen-ext/internal/typestest"
)

type fakeIntrospector struct {
	calls atomic.Int32
	enums map[string]*introspect.Enum
	err   error
}

func (f *fakeIntrospector) Introspect(_ context.Context, ref introspect.EnumRef) (*introspect.Enum, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	enum, ok := f.enums[ref.FQN()]
	if !ok {
		return nil, introspect.ErrNotFound
	}
	return enum, nil
}

func direction() *introspect.Enum {
	return &introspect.Enum{
		Ref:            introspect.EnumRef{PkgPath: "example.com/ext", Name: "Direction"},
		UnderlyingType: "string",
		Constants: []introspect.Constant{
			{Name: "North", Value: "N"},
			{Name: "East", Value: "E", Default: true},
			{Name: "West", Value: "W", Deprecated: true},
		},
	}
}

func TestResolver_OptionListCachesPerType(t *testing.T) {
	in := &fakeIntrospector{enums: map[string]*introspect.Enum{"example.com/ext.Direction": direction()}}
	r := NewResolver(in)

	var wg sync.WaitGroup
	results := make([]*OptionListData, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, err := r.OptionList(context.Background(), "example.com/ext.Direction")
			assert.NoError(t, err)
			results[i] = data
		}(i)
	}
	wg.Wait()

	require.NotNil(t, results[0])
	for _, data := range results {
		assert.Same(t, results[0], data)
	}
	assert.Equal(t, int32(1), in.calls.Load())
	assert.Equal(t, 1, r.Len())

	data := results[0]
	assert.Equal(t, "example.com/ext.Direction", data.ClassName)
	assert.Equal(t, "Direction", data.Key)
	assert.Equal(t, "Direction", data.Tag)
	assert.Equal(t, "East", data.DefaultOpt)
	assert.Equal(t, "string", data.UnderlyingType)
	require.Len(t, data.Options, 3)
	assert.Equal(t, Option{Name: "West", Value: "W", Deprecated: true, Description: "Option for West"}, data.Options[2])
}

func TestResolver_DefaultOption(t *testing.T) {
	tests := []struct {
		name    string
		consts  []introspect.Constant
		want    string
		wantErr error
	}{
		{
			name:   "first when unmarked",
			consts: []introspect.Constant{{Name: "A"}, {Name: "B"}},
			want:   "A",
		},
		{
			name:   "marked",
			consts: []introspect.Constant{{Name: "A"}, {Name: "B", Default: true}},
			want:   "B",
		},
		{
			name:    "ambiguous",
			consts:  []introspect.Constant{{Name: "A", Default: true}, {Name: "B", Default: true}},
			wantErr: ErrAmbiguousDefault,
		},
		{
			name:    "empty",
			consts:  nil,
			wantErr: introspect.ErrNotEnum,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			in := &fakeIntrospector{enums: map[string]*introspect.Enum{
				"example.com/ext.E": {Ref: introspect.EnumRef{PkgPath: "example.com/ext", Name: "E"}, Constants: tc.consts},
			}}
			data, err := NewResolver(in).OptionList(context.Background(), "example.com/ext.E")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, data.DefaultOpt)
		})
	}
}

func TestResolver_ErrorsAreNotCached(t *testing.T) {
	boom := errors.New("boom")
	in := &fakeIntrospector{err: boom}
	r := NewResolver(in)

	_, err := r.OptionList(context.Background(), "example.com/ext.Direction")
	assert.ErrorIs(t, err, boom)
	_, err = r.OptionList(context.Background(), "example.com/ext.Direction")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), in.calls.Load())
	assert.Equal(t, 0, r.Len())
}

const fixtureSrc = `package ext

type Direction string

func (d Direction) ToUnderlyingValue() string { return string(d) }

type Ptr int

func (p *Ptr) ToUnderlyingValue() int { return int(*p) }

type Plain string
`

func TestClassify(t *testing.T) {
	u := typestest.New(t)
	u.Check(t, "example.com/ext", fixtureSrc)
	dir := u.Type(t, "example.com/ext", "Direction")
	plain := u.Type(t, "example.com/ext", "Plain")
	ptr := u.Type(t, "example.com/ext", "Ptr")

	kind, _, ok := Classify(Target{Type: dir, Asset: &AssetData{}})
	assert.True(t, ok)
	assert.Equal(t, Asset, kind)

	kind, enum, ok := Classify(Target{Type: types.Typ[types.String], Options: dir})
	assert.True(t, ok)
	assert.Equal(t, OptionList, kind)
	assert.Same(t, dir, enum)

	kind, enum, ok = Classify(Target{Type: dir})
	assert.True(t, ok)
	assert.Equal(t, OptionList, kind)
	assert.Same(t, dir, enum)

	_, _, ok = Classify(Target{Type: plain})
	assert.False(t, ok)
	_, _, ok = Classify(Target{Type: ptr})
	assert.False(t, ok, "pointer receiver accessor is not an option list")
}

func TestResolver_ResolveAsset(t *testing.T) {
	r := NewResolver(&fakeIntrospector{})
	h, err := r.Resolve(context.Background(), Target{Type: types.Typ[types.String], Asset: &AssetData{Filter: []string{"png"}}})
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, Asset, h.Kind)
	assert.Equal(t, AssetData{Filter: []string{"png"}}, h.Data)

	h, err = r.Resolve(context.Background(), Target{Type: types.Typ[types.String]})
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestHelper_MarshalJSON(t *testing.T) {
	asset, err := json.Marshal(&Helper{Kind: Asset, Data: AssetData{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ASSET","data":{}}`, string(asset))

	filtered, err := json.Marshal(&Helper{Kind: Asset, Data: AssetData{Filter: []string{"png", "jpg"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ASSET","data":{"filter":["png","jpg"]}}`, string(filtered))

	opts, err := json.Marshal(&Helper{Kind: OptionList, Data: &OptionListData{
		ClassName:      "example.com/ext.Direction",
		Key:            "Direction",
		Tag:            "Direction",
		UnderlyingType: "string",
		DefaultOpt:     "North",
		Options:        []Option{{Name: "North", Value: "N", Description: "Option for North"}},
	}})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "OPTION_LIST",
		"data": {
			"className": "example.com/ext.Direction",
			"underlyingType": "string",
			"defaultOpt": "North",
			"options": [{"name": "North", "deprecated": "false", "value": "N", "description": "Option for North"}],
			"key": "Direction",
			"tag": "Direction"
		}
	}`, string(opts))
}
