package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет email сообщение
	Send(email *Email) error

	// Validate проверяет конфигурацию провайдера
	Validate() error
}

// NoopProvider отбрасывает письма. Используется, когда SMTP не
// сконфигурирован (локальная разработка, тесты).
type NoopProvider struct {
	// Sent накапливает отправленные письма; тесты читают этот срез.
	Sent []*Email
}

func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

func (p *NoopProvider) Send(email *Email) error {
	p.Sent = append(p.Sent, email)
	return nil
}

func (p *NoopProvider) Validate() error {
	return nil
}
