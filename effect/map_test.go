package effect_test

import (
	"context"
	"errors"
	"testing"

	"github.com/on-the-ground/reduct_ive_go/effect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type childAction struct {
	value int
}

type parentAction struct {
	child childAction
}

func wrap(ca childAction) parentAction { return parentAction{child: ca} }

func TestMap_One(t *testing.T) {
	e := effect.NewOne(func(ctx context.Context) (childAction, error) {
		return childAction{value: 7}, nil
	})

	mapped, ok := effect.Map(e, wrap).(effect.One[parentAction])
	require.True(t, ok)

	pa, err := mapped.Op(context.Background())
	require.NoError(t, err)
	assert.Equal(t, parentAction{child: childAction{value: 7}}, pa)
}

func TestMap_OnePropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	e := effect.NewOne(func(ctx context.Context) (childAction, error) {
		return childAction{}, wantErr
	})

	mapped := effect.Map(e, wrap).(effect.One[parentAction])
	_, err := mapped.Op(context.Background())
	assert.ErrorIs(t, err, wantErr)
}

func TestMap_ManyPreservesEmissionOrder(t *testing.T) {
	e := effect.NewMany(func(ctx context.Context, yield func(childAction) bool) error {
		for _, v := range []int{1, 2, 3} {
			if !yield(childAction{value: v}) {
				break
			}
		}
		return nil
	})

	mapped, ok := effect.Map(e, wrap).(effect.Many[parentAction])
	require.True(t, ok)

	var got []parentAction
	err := mapped.Op(context.Background(), func(pa parentAction) bool {
		got = append(got, pa)
		return true
	})
	require.NoError(t, err)

	want := []parentAction{
		{child: childAction{value: 1}},
		{child: childAction{value: 2}},
		{child: childAction{value: 3}},
	}
	assert.Equal(t, want, got)
}

func TestMap_ControlValuesPassThrough(t *testing.T) {
	id := effect.IDOf("ticker")

	cancel := effect.Map(effect.NewCancel[childAction](id), wrap)
	assert.Equal(t, effect.Cancel[parentAction]{ID: id}, cancel)

	forget := effect.Map(effect.NewForget[childAction](id), wrap)
	assert.Equal(t, effect.Forget[parentAction]{ID: id}, forget)
}

func TestMap_RecursesThroughWrappers(t *testing.T) {
	id := effect.IDOf("tracked")
	inner := effect.NewOne(func(ctx context.Context) (childAction, error) {
		return childAction{value: 42}, nil
	})
	e := effect.Combine(
		effect.Tag(inner, id),
		effect.NewCancel[childAction](effect.IDOf("other")),
	)

	compound, ok := effect.Map(e, wrap).(effect.Compound[parentAction])
	require.True(t, ok)
	require.Len(t, compound.Children, 2)

	cancellable, ok := compound.Children[0].(effect.Cancellable[parentAction])
	require.True(t, ok)
	assert.Equal(t, id, cancellable.ID)

	one, ok := cancellable.Inner.(effect.One[parentAction])
	require.True(t, ok)
	pa, err := one.Op(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, pa.child.value)
}

func TestMap_Nil(t *testing.T) {
	assert.Nil(t, effect.Map[childAction, parentAction](nil, wrap))
}
