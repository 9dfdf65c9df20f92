package booking

// Status is the lifecycle state of a stored reservation, as numbered by the
// backend.
type Status int

const (
	StatusPending Status = iota
	StatusActive
	StatusUpcoming
	StatusExpired
	StatusCancelled
	StatusRejected
)

// historyStatuses lists every status other than Active, in display order.
var historyStatuses = []Status{StatusPending, StatusUpcoming, StatusExpired, StatusCancelled, StatusRejected}

func (s Status) Valid() bool { return s >= StatusPending && s <= StatusRejected }

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusActive:
		return "ACTIVE"
	case StatusUpcoming:
		return "UPCOMING"
	case StatusExpired:
		return "EXPIRED"
	case StatusCancelled:
		return "CANCELLED"
	case StatusRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// Label is the status as shown to citizens.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "PENDENTE"
	case StatusActive:
		return "ATIVA"
	case StatusUpcoming:
		return "FUTURA"
	case StatusExpired:
		return "VENCIDA"
	case StatusCancelled:
		return "CANCELADA"
	case StatusRejected:
		return "REPROVADA"
	default:
		return "DESCONHECIDO"
	}
}
