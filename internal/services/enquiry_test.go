package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nithinv16/DukaaOnWebsite/internal/database"
	"github.com/nithinv16/DukaaOnWebsite/internal/events"
	"github.com/nithinv16/DukaaOnWebsite/internal/logger"
	"github.com/nithinv16/DukaaOnWebsite/internal/models"
	"github.com/nithinv16/DukaaOnWebsite/pkg/email"
)

type fakeEnquiryStore struct {
	mu         sync.Mutex
	created    []*models.EnquiryMessage
	listed     []models.EnquiryMessage
	total      int64
	err        error
	lastFilter database.EnquiryFilter
}

func (f *fakeEnquiryStore) Create(_ context.Context, e *models.EnquiryMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, e)
	return nil
}

func (f *fakeEnquiryStore) List(_ context.Context, filter database.EnquiryFilter) ([]models.EnquiryMessage, int64, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.listed, f.total, nil
}

type recordingNotifier struct {
	name string
	err  error
	mu   sync.Mutex
	got  []*models.EnquiryMessage
}

func (n *recordingNotifier) Name() string { return n.name }

func (n *recordingNotifier) NotifyEnquiry(_ context.Context, e *models.EnquiryMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, e)
	return n.err
}

type panickingNotifier struct{}

func (panickingNotifier) Name() string { return "panics" }
func (panickingNotifier) NotifyEnquiry(context.Context, *models.EnquiryMessage) error {
	panic("boom")
}

func TestSubmit_StoresSanitizedEnquiry(t *testing.T) {
	store := &fakeEnquiryStore{}
	notifier := &recordingNotifier{name: "rec"}
	svc := NewEnquiryService(store, logger.Nop(), notifier, &recordingNotifier{name: "failing", err: errors.New("smtp down")}, panickingNotifier{})

	req := validEnquiry()
	req.VisitorName = "  <b>Ravi</b> "
	id, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	svc.Wait()

	require.Len(t, store.created, 1)
	stored := store.created[0]
	assert.Equal(t, id, stored.ID.String())
	assert.Equal(t, "bRavi/b", stored.VisitorName)
	assert.Equal(t, models.EnquiryTypeSeller, stored.EnquiryType)
	assert.Equal(t, models.EnquiryStatusNew, stored.Status)
	assert.Equal(t, "seller-1", *stored.SellerID)
	assert.Nil(t, stored.StakeholderType)

	require.Len(t, notifier.got, 1)
	assert.Same(t, stored, notifier.got[0])
}

func TestSubmit_ValidationFailure(t *testing.T) {
	store := &fakeEnquiryStore{}
	svc := NewEnquiryService(store, logger.Nop())

	req := validEnquiry()
	req.Phone = "123"
	_, err := svc.Submit(context.Background(), req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Validation failed", verr.Message)
	assert.Equal(t, []FieldError{{Field: "phone", Message: "Please enter a valid phone number"}}, verr.Fields)
	assert.Empty(t, store.created)
}

func TestSubmit_StoreFailure(t *testing.T) {
	notifier := &recordingNotifier{name: "rec"}
	svc := NewEnquiryService(&fakeEnquiryStore{err: errors.New("connection refused")}, logger.Nop(), notifier)

	_, err := svc.Submit(context.Background(), validEnquiry())
	svc.Wait()

	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Failed to submit enquiry. Please try again.", serr.Message)
	assert.Empty(t, notifier.got)
}

func TestSubmit_ContactEnquiry(t *testing.T) {
	store := &fakeEnquiryStore{}
	svc := NewEnquiryService(store, logger.Nop())

	req := validEnquiry()
	req.SellerID = ""
	req.EnquiryType = models.EnquiryTypeContact
	req.StakeholderType = "investor"

	_, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, store.created[0].SellerID)
	assert.Equal(t, "investor", *store.created[0].StakeholderType)
	assert.Equal(t, models.EnquiryTypeContact, store.created[0].EnquiryType)
}

func TestEnquiryList(t *testing.T) {
	store := &fakeEnquiryStore{
		listed: []models.EnquiryMessage{{VisitorName: "A"}, {VisitorName: "B"}},
		total:  42,
	}
	svc := NewEnquiryService(store, logger.Nop())

	resp, err := svc.List(context.Background(), EnquiryListParams{Status: "new", Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, database.EnquiryFilter{Status: "new", Offset: 20, Limit: 10}, store.lastFilter)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 42, resp.TotalCount)
	assert.Equal(t, 5, resp.TotalPages)

	resp, err = svc.List(context.Background(), EnquiryListParams{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, resp.Limit)
	assert.Equal(t, 1, resp.Page)

	store.err = errors.New("down")
	_, err = svc.List(context.Background(), EnquiryListParams{})
	var serr *StoreError
	assert.ErrorAs(t, err, &serr)
}

type fakeMailer struct {
	to string
	n  email.EnquiryNotification
}

func (m *fakeMailer) SendEnquiryNotification(to string, n email.EnquiryNotification) error {
	m.to, m.n = to, n
	return nil
}

type fakePusher struct {
	topic, title, body string
	data               map[string]string
}

func (p *fakePusher) SendToTopic(_ context.Context, topic, title, body string, data map[string]string) error {
	p.topic, p.title, p.body, p.data = topic, title, body, data
	return nil
}

type fakePublisher struct {
	evt events.EnquiryCreated
}

func (p *fakePublisher) PublishEnquiryCreated(_ context.Context, evt events.EnquiryCreated) error {
	p.evt = evt
	return nil
}

func TestNotifiers(t *testing.T) {
	e := &models.EnquiryMessage{
		VisitorName:     "Ravi",
		VisitorEmail:    "ravi@example.in",
		VisitorPhone:    "9876543210",
		VisitorLocation: "Pune",
		Message:         "Need rice",
		EnquiryType:     models.EnquiryTypeContact,
		StakeholderType: ptr("retailer"),
	}
	e.ID = uuid.New()
	ctx := context.Background()

	mailer := &fakeMailer{}
	require.NoError(t, NewEmailNotifier(mailer, "admin@dukaaon.in").NotifyEnquiry(ctx, e))
	assert.Equal(t, "admin@dukaaon.in", mailer.to)
	assert.Equal(t, "98765 43210", mailer.n.Phone)
	assert.Equal(t, "retailer", mailer.n.StakeholderType)
	assert.Empty(t, mailer.n.SellerID)

	pusher := &fakePusher{}
	require.NoError(t, NewPushNotifier(pusher, "enquiries").NotifyEnquiry(ctx, e))
	assert.Equal(t, "enquiries", pusher.topic)
	assert.Equal(t, "New contact enquiry", pusher.title)
	assert.Equal(t, "Ravi from Pune", pusher.body)
	assert.Equal(t, e.ID.String(), pusher.data["enquiryId"])

	pub := &fakePublisher{}
	require.NoError(t, NewEventNotifier(pub).NotifyEnquiry(ctx, e))
	assert.Equal(t, e.ID.String(), pub.evt.EnquiryID)
	assert.Equal(t, "Pune", pub.evt.VisitorLocation)
	assert.Equal(t, "retailer", pub.evt.StakeholderType)
}
