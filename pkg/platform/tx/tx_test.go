package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithTx_NilIsIgnored(t *testing.T) {
	ctx := WithTx(context.Background(), nil)
	_, ok := From(ctx)
	assert.False(t, ok)
}

func TestRun_ReusesAmbientTransaction(t *testing.T) {
	ambient := &sql.Tx{}
	ctx := WithTx(context.Background(), ambient)

	var seen *sql.Tx
	err := Run(ctx, nil, func(ctx context.Context) error {
		seen, _ = From(ctx)
		return nil
	})

	assert.NoError(t, err)
	assert.Same(t, ambient, seen)
}
