package notify

// mockBackend records notification calls for testing.
type mockBackend struct {
	notifyCalls []notificationCall
	alertCalls  []notificationCall
	err         error
}

type notificationCall struct {
	title    string
	message  string
	iconPath string
}

func (m *mockBackend) Notify(title, message, iconPath string) error {
	m.notifyCalls = append(m.notifyCalls, notificationCall{title, message, iconPath})
	return m.err
}

func (m *mockBackend) Alert(title, message, iconPath string) error {
	m.alertCalls = append(m.alertCalls, notificationCall{title, message, iconPath})
	return m.err
}
