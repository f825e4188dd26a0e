package reminders

import "fmt"

// Notification — полезная нагрузка push-уведомления в том виде,
// в котором её ждёт service worker клиента.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Compose детерминированно собирает уведомление: одинаковый снимок
// обязательства и горизонт всегда дают байт-в-байт одинаковый payload.
func Compose(ob Obligation, h Horizon) Notification {
	var title, noun, article string
	switch ob.Kind {
	case KindInvoice:
		title = "Fatura vencendo!"
		noun = "fatura"
		article = "A"
	default:
		title = "Pagamento vencendo!"
		noun = "pagamento"
		article = "O"
	}

	return Notification{
		Title: title,
		Body:  fmt.Sprintf("%s %s \"%s\" de R$ %.2f %s!", article, noun, ob.Name, ob.Amount, h.Copy),
		URL:   deepLink(ob.Kind),
	}
}

// ComposeTest — пробное уведомление для ручной проверки подписок.
func ComposeTest() Notification {
	return Notification{
		Title: "Teste de Notificação 🔔",
		Body:  "Se você está lendo isso, o sistema de alertas está funcionando perfeitamente!",
		URL:   "/",
	}
}

func deepLink(k Kind) string {
	if k == KindInvoice {
		return "/faturas"
	}
	return "/"
}
