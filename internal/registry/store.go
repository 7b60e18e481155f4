package registry

import (
	"sync"

	"fleettrack/internal/model"

	"go.uber.org/zap"
)

// Update is what change subscribers receive after a write is applied.
type Update struct {
	Device   *model.Device
	Position *model.Position
}

// Store holds the session's devices and their latest positions. All writes go
// through UpsertDevice and UpsertPosition so each inbound telemetry message is
// applied atomically; readers see either the state before or after a message,
// never a partial one.
type Store struct {
	mu        sync.RWMutex
	devices   map[int64]*model.Device
	positions map[int64]*model.Position

	subMu   sync.Mutex
	subs    map[int]chan Update
	nextSub int
}

func NewStore() *Store {
	return &Store{
		devices:   make(map[int64]*model.Device),
		positions: make(map[int64]*model.Position),
		subs:      make(map[int]chan Update),
	}
}

// UpsertDevice merges a whole-device push into the registry. Devices are never
// removed during a session.
func (s *Store) UpsertDevice(device model.Device) {
	s.mu.Lock()
	s.devices[device.ID] = &device
	s.mu.Unlock()

	s.publish(Update{Device: &device})
}

// UpsertPosition applies a position push, keyed by device. A push whose
// FixTime precedes the retained position's is a transport reordering and is
// discarded; otherwise the latest arrival wins.
func (s *Store) UpsertPosition(position model.Position) bool {
	s.mu.Lock()
	current, ok := s.positions[position.DeviceID]
	if ok && position.FixTime.Before(current.FixTime) {
		s.mu.Unlock()
		zap.L().Debug("Discarding out-of-order position",
			zap.Int64("device_id", position.DeviceID),
			zap.Time("fix_time", position.FixTime),
			zap.Time("retained_fix_time", current.FixTime),
		)
		return false
	}
	s.positions[position.DeviceID] = &position
	s.mu.Unlock()

	s.publish(Update{Position: &position})
	return true
}

// Device returns the device by id, or nil when unknown.
func (s *Store) Device(id int64) *model.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.devices[id]
}

// Position returns the latest position for a device, or nil.
func (s *Store) Position(deviceID int64) *model.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.positions[deviceID]
}

// Devices returns a snapshot of all known devices.
func (s *Store) Devices() []*model.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Device, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, d)
	}
	return out
}

// Subscribe registers a change listener. Updates that cannot be delivered
// without blocking are dropped for that subscriber; the registry itself never
// stalls on a slow consumer.
func (s *Store) Subscribe(buffer int) (<-chan Update, func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Update, buffer)
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *Store) publish(update Update) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- update:
		default:
		}
	}
}
