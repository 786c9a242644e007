package domain

import "time"

// NotificationAutoHide - через сколько уведомление скрывается само,
// отсчет идет от последнего Set.
const NotificationAutoHide = 4000 * time.Millisecond

// Severity - уровень важности уведомления.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Placement - подсказка, где показывать уведомление на экране.
// Чисто косметическое поле, никакой другой семантики не несет.
type Placement string

const (
	// PlacementBottomLeft - позиция по умолчанию.
	PlacementBottomLeft Placement = "bottom-left"
	// PlacementBottomCenter используется для уведомления после регистрации.
	PlacementBottomCenter Placement = "bottom-center"
)

// Notification - одно транзитное уведомление пользователю.
// У каждого пользователя есть ровно один слот: новый Set
// безусловно затирает предыдущее уведомление (last-write-wins).
type Notification struct {
	Visible   bool      `json:"visible"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Placement Placement `json:"placement"`
}

// NewNotification создает видимое уведомление с позицией по умолчанию.
func NewNotification(severity Severity, message string) Notification {
	return Notification{
		Visible:   true,
		Severity:  severity,
		Message:   message,
		Placement: PlacementBottomLeft,
	}
}
