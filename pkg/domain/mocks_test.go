package domain_test

import (
	"context"
	"testing"
	"time"

	"github.com/devopsinterview/storefront/pkg/domain/mail"
	mailMocks "github.com/devopsinterview/storefront/pkg/domain/mail/mocks"
	"github.com/devopsinterview/storefront/pkg/domain/payment"
	paymentMocks "github.com/devopsinterview/storefront/pkg/domain/payment/mocks"
	"github.com/devopsinterview/storefront/pkg/domain/ratelimit"
	ratelimitMocks "github.com/devopsinterview/storefront/pkg/domain/ratelimit/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	_ ratelimit.Store = (*ratelimitMocks.Store)(nil)
	_ mail.Sender     = (*mailMocks.Sender)(nil)
	_ payment.Gateway = (*paymentMocks.Gateway)(nil)
)

func TestGeneratedMocks(t *testing.T) {
	store := ratelimitMocks.NewStore(t)
	store.EXPECT().Increment(mock.Anything, "checkout:198.51.100.7", time.Minute).
		Return(ratelimit.Counter{Count: 1}, nil)
	counter, err := store.Increment(context.Background(), "checkout:198.51.100.7", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counter.Count)

	sender := mailMocks.NewSender(t)
	sender.EXPECT().Send(mock.Anything, mock.Anything).Return(nil)
	assert.NoError(t, sender.Send(context.Background(), mail.Message{To: []string{"reader@example.com"}}))
}
