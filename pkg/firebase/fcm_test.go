package firebase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMessenger struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeMessenger) Send(_ context.Context, m *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, m)
	return "projects/dukaaon/messages/1", nil
}

func TestSendToTopic(t *testing.T) {
	m := &fakeMessenger{}
	svc := NewFCMServiceWithClient(m, zap.NewNop().Sugar())

	err := svc.SendToTopic(context.Background(), "enquiries", "New enquiry", "Ravi from Pune", map[string]string{"enquiryId": "e-1"})
	require.NoError(t, err)
	require.Len(t, m.sent, 1)
	assert.Equal(t, "enquiries", m.sent[0].Topic)
	assert.Equal(t, "New enquiry", m.sent[0].Notification.Title)
	assert.Equal(t, "e-1", m.sent[0].Data["enquiryId"])
}

func TestSendToTopic_Error(t *testing.T) {
	svc := NewFCMServiceWithClient(&fakeMessenger{err: errors.New("quota")}, zap.NewNop().Sugar())
	err := svc.SendToTopic(context.Background(), "enquiries", "t", "b", nil)
	assert.ErrorContains(t, err, "push to topic enquiries: quota")
}

func TestUninitializedSkips(t *testing.T) {
	svc := NewFCMService(context.Background(), "", filepath.Join(t.TempDir(), "missing.json"), zap.NewNop().Sugar())
	assert.False(t, svc.IsInitialized())
	assert.NoError(t, svc.SendToTopic(context.Background(), "enquiries", "t", "b", nil))

	svc = NewFCMService(context.Background(), "{not json", "", zap.NewNop().Sugar())
	assert.False(t, svc.IsInitialized())
}
