package callmodel

import (
	"math"

	"github.com/google/uuid"

	"github.com/mfinn/callmodel/internal/telephony"
)

// record ties a live call to its backing connection. The handle is an
// engine-minted token identifying the connection sighting; it is retired
// with the record and shows up in logs instead of raw pointers.
type record struct {
	call   *Call
	conn   telephony.Connection
	handle string
}

// Store owns the two identity maps (connection to simple record,
// connection to conference record) and the call-ID allocator. Not
// goroutine safe; the Modeler serializes access.
type Store struct {
	simple map[telephony.Connection]*record
	conf   map[telephony.Connection]*record
	nextID int
}

// NewStore returns an empty store with a fresh ID allocator.
func NewStore() *Store {
	return &Store{
		simple: make(map[telephony.Connection]*record),
		conf:   make(map[telephony.Connection]*record),
		nextID: 1,
	}
}

// allocateID hands out the next free call ID. The counter wraps to 1 on
// overflow and re-probes against live records, so an ID is never reused
// while assigned. With at most a handful of concurrent calls the probe
// loop is effectively bounded.
func (s *Store) allocateID() int {
	for {
		id := s.nextID
		if s.nextID == math.MaxInt32 {
			s.nextID = 1
		} else {
			s.nextID++
		}
		if !s.idInUse(id) {
			return id
		}
	}
}

func (s *Store) idInUse(id int) bool {
	for _, rec := range s.simple {
		if rec.call.ID == id {
			return true
		}
	}
	for _, rec := range s.conf {
		if rec.call.ID == id {
			return true
		}
	}
	return false
}

func newRecord(id int, conn telephony.Connection) *record {
	return &record{
		call:   &Call{ID: id, State: StateIdle},
		conn:   conn,
		handle: uuid.NewString(),
	}
}

// Simple returns the simple record for conn, if any.
func (s *Store) Simple(conn telephony.Connection) (*record, bool) {
	rec, ok := s.simple[conn]
	return rec, ok
}

// CreateSimple mints an empty simple record for conn. The caller
// populates it in the same engine pass.
func (s *Store) CreateSimple(conn telephony.Connection) *record {
	rec := newRecord(s.allocateID(), conn)
	s.simple[conn] = rec
	return rec
}

// RemoveSimple retires the simple record for conn.
func (s *Store) RemoveSimple(conn telephony.Connection) {
	delete(s.simple, conn)
}

// Conference returns the conference record keyed by conn, if any.
func (s *Store) Conference(conn telephony.Connection) (*record, bool) {
	rec, ok := s.conf[conn]
	return rec, ok
}

// CreateConference mints an empty conference record keyed by conn.
func (s *Store) CreateConference(conn telephony.Connection) *record {
	rec := newRecord(s.allocateID(), conn)
	s.conf[conn] = rec
	return rec
}

// RemoveConference retires the conference record keyed by conn.
func (s *Store) RemoveConference(conn telephony.Connection) {
	delete(s.conf, conn)
}

// SimpleConnections returns the connections currently backing simple
// records.
func (s *Store) SimpleConnections() []telephony.Connection {
	conns := make([]telephony.Connection, 0, len(s.simple))
	for conn := range s.simple {
		conns = append(conns, conn)
	}
	return conns
}

// ConferenceConnections returns the connections keying conference records.
func (s *Store) ConferenceConnections() []telephony.Connection {
	conns := make([]telephony.Connection, 0, len(s.conf))
	for conn := range s.conf {
		conns = append(conns, conn)
	}
	return conns
}

// Records returns every live record, simple before conference.
func (s *Store) Records() []*record {
	recs := make([]*record, 0, len(s.simple)+len(s.conf))
	for _, rec := range s.simple {
		recs = append(recs, rec)
	}
	for _, rec := range s.conf {
		recs = append(recs, rec)
	}
	return recs
}

// ByID finds the record holding the given call ID. Linear scan; the
// number of concurrent calls is small.
func (s *Store) ByID(id int) (*record, bool) {
	for _, rec := range s.Records() {
		if rec.call.ID == id {
			return rec, true
		}
	}
	return nil, false
}

// InConference reports whether the given call ID is a member of any live
// conference record.
func (s *Store) InConference(id int) bool {
	for _, rec := range s.conf {
		for _, child := range rec.call.ChildIDs {
			if child == id {
				return true
			}
		}
	}
	return false
}

// Counts returns the number of live simple and conference records.
func (s *Store) Counts() (simple, conference int) {
	return len(s.simple), len(s.conf)
}
