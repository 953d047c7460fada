package command

import (
	"artbot/internal/core/domain"
	"context"
	"sync"
)

type mockTextSender struct {
	mutex          sync.Mutex
	replyCalls     []string
	notifyErrCalls []error
	actions        []domain.Action
	replyErr       error
	notifyErr      error
}

func (m *mockTextSender) SendChatAction(_ context.Context, _ int64, action domain.Action) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.actions = append(m.actions, action)
}

func (m *mockTextSender) SendMessageReply(_ context.Context, _ *domain.Message, text string) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.replyCalls = append(m.replyCalls, text)
	return 0, m.replyErr
}

func (m *mockTextSender) NotifyAndReturnError(_ context.Context, err error, _ *domain.Message) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.notifyErrCalls = append(m.notifyErrCalls, err)
	if m.notifyErr != nil {
		return m.notifyErr
	}

	return err
}

type mockImageSender struct {
	filename string
	file     []byte
	called   bool
	err      error
}

func (m *mockImageSender) SendImageFileReply(_ context.Context, _ *domain.Message, filename string,
	file []byte) error {
	m.called = true
	m.filename = filename
	m.file = file
	return m.err
}

type mockDownloader struct {
	data   []byte
	err    error
	called bool
	url    string
}

func (m *mockDownloader) Download(_ context.Context, url string) ([]byte, error) {
	m.called = true
	m.url = url
	return m.data, m.err
}

type mockPreparer struct {
	err      error
	filename string
}

func (m *mockPreparer) Prepare(_ context.Context, data []byte, filename string) (*domain.Upload, error) {
	m.filename = filename
	if m.err != nil {
		return nil, m.err
	}

	return &domain.Upload{Data: data, MimeType: "image/jpeg", Filename: filename}, nil
}

type mockConverter struct {
	request *domain.ConversionRequest
	data    []byte
	err     error
}

func (m *mockConverter) Convert(_ context.Context, request *domain.ConversionRequest) (*domain.ConvertedImage, error) {
	m.request = request
	if m.err != nil {
		return nil, m.err
	}

	return &domain.ConvertedImage{Data: m.data, MimeType: "image/jpeg", Style: request.Style()}, nil
}

type mockTracker struct {
	refuse    bool
	began     bool
	done      bool
	converted bool
}

func (m *mockTracker) Begin(_ context.Context, _ *domain.Message) bool {
	m.began = true
	return !m.refuse
}

func (m *mockTracker) Done(_ int64, converted bool) {
	m.done = true
	m.converted = converted
}

func (m *mockTracker) Count(_ int64) int {
	return 0
}

type mockHealth struct {
	greeting string
	err      error
}

func (m *mockHealth) Ping(_ context.Context) (string, error) {
	return m.greeting, m.err
}
