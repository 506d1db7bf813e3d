package view

const (
	DefaultSuccessMessage = "Erfolgreich gespeichert"
	DefaultErrorMessage   = "Ein unerwarteter Fehler ist aufgetreten"
)

// Notification é o banner exibido após uma ação. IsOOBSwap faz o htmx
// encaixar o fragmento no container de notificações fora do alvo da resposta.
type Notification struct {
	IsOOBSwap bool
	IsSuccess bool
	Message   string
	Hint      string
}

func SuccessNotification(message string) *Notification {
	if message == "" {
		message = DefaultSuccessMessage
	}
	return &Notification{IsOOBSwap: true, IsSuccess: true, Message: message}
}

func ErrorNotification(message string) *Notification {
	if message == "" {
		message = DefaultErrorMessage
	}
	return &Notification{IsOOBSwap: true, IsSuccess: false, Message: message}
}
