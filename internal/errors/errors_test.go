package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"goadf/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestFromDomain_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"insufficient", core.NewInsufficientDataError(9, 10), CodeInsufficientData},
		{"invalid series", core.NewInvalidSeriesError(3, 0), CodeInvalidSeries},
		{"config", core.NewConfigError("lags", "negative"), CodeConfigInvalid},
		{"singular", core.NewSingularDesignError(1, 20, 3), CodeSingularDesign},
		{"infeasible wrapped", fmt.Errorf("selecting: %w", core.ErrLagInfeasible), CodeLagInfeasible},
		{"canceled", context.Canceled, CodeCanceled},
		{"other", stderrors.New("boom"), CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := FromDomain(tt.err)
			assert.Equal(t, tt.code, GetCode(classified))
			assert.True(t, stderrors.Is(classified, tt.err), "classification must keep the cause chain")
			assert.Equal(t, tt.err.Error(), classified.Error())
		})
	}

	assert.Nil(t, FromDomain(nil))
}

func TestFromDomain_KeepsAppError(t *testing.T) {
	appErr := ConfigInvalid("bad regression")
	assert.Same(t, appErr, FromDomain(appErr))
}

func TestWrap_PreservesKind(t *testing.T) {
	wrapped := Wrapf(core.NewSingularDesignError(0, 20, 3), "series %q", "flat")

	assert.Equal(t, CodeSingularDesign, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, core.ErrSingularDesign))
	assert.Contains(t, wrapped.Error(), `series "flat"`)
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeConfigInvalid, stderrors.New("invalid argument for --max-lags"))
	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.Equal(t, CodeConfigInvalid, GetCode(FromDomain(err)))
	assert.Equal(t, "invalid argument for --max-lags", err.Error())
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}
