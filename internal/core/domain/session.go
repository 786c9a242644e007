package domain

// SessionState - явное трехзначное состояние сессии.
// Роутинг завязан только на этот enum, а не на тайминги промисов,
// как это было в исходном клиенте.
type SessionState int

const (
	// SessionUnresolved - первый ответ провайдера еще не получен.
	SessionUnresolved SessionState = iota
	// SessionPresent - пользователь аутентифицирован.
	SessionPresent
	// SessionAbsent - пользователь не аутентифицирован.
	SessionAbsent
)

func (s SessionState) String() string {
	switch s {
	case SessionPresent:
		return "present"
	case SessionAbsent:
		return "absent"
	default:
		return "unresolved"
	}
}

// Session - результат разрешения сессии. Claims заполнены только
// в состоянии SessionPresent.
type Session struct {
	State  SessionState
	Claims *Claims
}
