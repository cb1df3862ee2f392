package vending

// State is a controller state.
type State string

const (
	StateIdle                   State = "idle"
	StateSelecting              State = "selecting"
	StateCollectingPayment      State = "collecting_payment"
	StateReadyToCheckout        State = "ready_to_checkout"
	StateAwaitingChangeDecision State = "awaiting_change_decision"
	StateDispensing             State = "dispensing"
	StateMaintenance            State = "maintenance"
)

func (s State) String() string { return string(s) }

// InTransaction reports whether s belongs to an open customer transaction.
func (s State) InTransaction() bool {
	switch s {
	case StateSelecting, StateCollectingPayment, StateReadyToCheckout,
		StateAwaitingChangeDecision, StateDispensing:
		return true
	}
	return false
}

// Event drives the controller state graph.
type Event string

const (
	EventStart               Event = "start"
	EventSelect              Event = "select"
	EventAbort               Event = "abort"
	EventInsert              Event = "insert"
	EventCheckout            Event = "checkout"
	EventAcceptReducedChange Event = "accept_reduced_change"
	EventCancel              Event = "cancel"
	EventComplete            Event = "complete"
	EventStartMaintenance    Event = "start_maintenance"
	EventEndMaintenance      Event = "end_maintenance"
	EventReloadChange        Event = "reload_change"
	EventAddProducts         Event = "add_products"
	EventUpdateCatalogue     Event = "update_catalogue"
)

func (e Event) String() string { return string(e) }

var allStates = []State{
	StateIdle,
	StateSelecting,
	StateCollectingPayment,
	StateReadyToCheckout,
	StateAwaitingChangeDecision,
	StateDispensing,
	StateMaintenance,
}

var allEvents = []Event{
	EventStart,
	EventSelect,
	EventAbort,
	EventInsert,
	EventCheckout,
	EventAcceptReducedChange,
	EventCancel,
	EventComplete,
	EventStartMaintenance,
	EventEndMaintenance,
	EventReloadChange,
	EventAddProducts,
	EventUpdateCatalogue,
}

// maintenanceEvents are only accepted while in StateMaintenance.
var maintenanceEvents = map[Event]bool{
	EventReloadChange:    true,
	EventAddProducts:     true,
	EventUpdateCatalogue: true,
}
