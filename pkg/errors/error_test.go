package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidConfiguration, "empty symbol list")
	suite.Equal(ErrCodeInvalidConfiguration, err.Code)
	suite.Equal("empty symbol list", err.Message)
	suite.Nil(err.Cause)
	suite.Equal("[101] empty symbol list", err.Error())
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeInvalidWeights, "weights sum to %.2f", 1.5)
	suite.Equal(ErrCodeInvalidWeights, err.Code)
	suite.Equal("weights sum to 1.50", err.Message)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("boom")
	err := Wrap(ErrCodeStrategyRuntimeError, "strategy failed", cause)
	suite.Equal(cause, err.Unwrap())
	suite.Equal("[402] strategy failed: boom", err.Error())
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("no such file")
	err := Wrapf(ErrCodeQueryFailed, cause, "failed to read %s", "AAPL")
	suite.Equal("failed to read AAPL", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestGetCode() {
	suite.Equal(ErrCodeAllocationFailed, GetCode(New(ErrCodeAllocationFailed, "x")))
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("plain")))
	suite.Equal(ErrCodeUnknown, GetCode(nil))
}

func (suite *ErrorTestSuite) TestGetCodeThroughFmtWrap() {
	inner := New(ErrCodeInvalidBar, "low above high")
	wrapped := fmt.Errorf("loading AAPL: %w", inner)

	suite.True(HasCode(wrapped, ErrCodeInvalidBar))

	var target *Error
	suite.True(As(wrapped, &target))
	suite.Equal(inner, target)
}

func (suite *ErrorTestSuite) TestHasCodeInChain() {
	inner := New(ErrCodeStrategyRuntimeError, "should_enter failed")
	outer := Wrap(ErrCodeBacktestCancelled, "run aborted", inner)

	suite.True(HasCode(outer, ErrCodeBacktestCancelled))
	suite.False(HasCode(outer, ErrCodeStrategyRuntimeError))
	suite.True(HasCodeInChain(outer, ErrCodeStrategyRuntimeError))
	suite.False(HasCodeInChain(outer, ErrCodeQueryFailed))
	suite.False(HasCodeInChain(nil, ErrCodeQueryFailed))
}
