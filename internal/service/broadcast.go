package service

// Fanout is a Broadcaster that forwards every event to each member, used to
// feed the websocket hub and the operator alerter from one broadcast call.
type Fanout []Broadcaster

// Broadcast implements Broadcaster.
func (f Fanout) Broadcast(event string, payload any) {
	for _, b := range f {
		b.Broadcast(event, payload)
	}
}
