package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/types"
)

func TestActionName_IsRegistered(t *testing.T) {
	for _, name := range types.RegisteredActions() {
		gt.Bool(t, name.IsRegistered()).True()
	}

	gt.Bool(t, types.ActionRespond.IsRegistered()).False()
	gt.Bool(t, types.ActionName("").IsRegistered()).False()
	gt.Bool(t, types.ActionName("make_coffee").IsRegistered()).False()
}

func TestNewConnID(t *testing.T) {
	first := types.NewConnID()
	second := types.NewConnID()

	gt.NoError(t, first.Validate())
	gt.Value(t, first).NotEqual(second)
}
