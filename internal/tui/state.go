package tui

import (
	"strings"

	"github.com/Makepad-fr/tasktrackr/internal/model"
)

// Messages shown in the single error slot.
const (
	MsgLoadFailed   = "Failed to load tasks."
	MsgAddFailed    = "Could not add task."
	MsgUpdateFailed = "Could not update task."
	MsgDeleteFailed = "Could not delete task."
)

// Phase is where an action stands.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// State is everything the client view holds. It only changes through the
// Begin*/…Succeeded/…Failed transitions below, each mirroring one request's
// lifecycle, and it never mutates tasks before the server has answered.
type State struct {
	Tasks []model.Task
	Draft string
	Load  Phase
	Add   Phase
	Err   string

	busy map[string]struct{}
}

func NewState() *State {
	return &State{busy: make(map[string]struct{})}
}

// Loading reports whether the initial fetch is still outstanding.
func (s *State) Loading() bool { return s.Load == PhaseLoading }

// Busy reports whether a mutating request for id is in flight.
func (s *State) Busy(id string) bool {
	_, ok := s.busy[id]
	return ok
}

// BusyCount is the number of tasks with a request in flight.
func (s *State) BusyCount() int { return len(s.busy) }

// Find returns the task with id.
func (s *State) Find(id string) (model.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (s *State) Counts() (done, pending int) {
	for _, t := range s.Tasks {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// --- list ---

func (s *State) BeginLoad() {
	s.Load = PhaseLoading
}

func (s *State) LoadSucceeded(tasks []model.Task) {
	s.Tasks = append([]model.Task(nil), tasks...)
	s.Load = PhaseSuccess
	s.Err = ""
}

func (s *State) LoadFailed() {
	s.Load = PhaseError
	s.Err = MsgLoadFailed
}

// --- add ---

// Adding reports whether a create request is in flight.
func (s *State) Adding() bool { return s.Add == PhaseLoading }

// BeginAdd returns the trimmed draft to send. ok is false for an empty or
// whitespace-only draft, or while a previous add is still in flight; in
// either case no request should be made.
func (s *State) BeginAdd() (title string, ok bool) {
	if s.Adding() {
		return "", false
	}
	title = strings.TrimSpace(s.Draft)
	if title == "" {
		return "", false
	}
	s.Add = PhaseLoading
	return title, true
}

func (s *State) AddSucceeded(t model.Task) {
	s.Tasks = append(s.Tasks, t)
	s.Add = PhaseSuccess
	s.Draft = ""
	s.Err = ""
}

// AddFailed keeps the draft so the user can retry.
func (s *State) AddFailed() {
	s.Add = PhaseError
	s.Err = MsgAddFailed
}

// --- toggle / delete ---

// BeginToggle marks id busy and returns the completed value to request.
// ok is false when the task is unknown or already busy.
func (s *State) BeginToggle(id string) (completed bool, ok bool) {
	t, found := s.Find(id)
	if !found || s.Busy(id) {
		return false, false
	}
	s.busy[id] = struct{}{}
	return !t.Completed, true
}

// ToggleSucceeded replaces the task's record with the server's copy.
func (s *State) ToggleSucceeded(id string, updated model.Task) {
	delete(s.busy, id)
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			s.Tasks[i] = updated
			break
		}
	}
	s.Err = ""
}

func (s *State) ToggleFailed(id string) {
	delete(s.busy, id)
	s.Err = MsgUpdateFailed
}

// BeginDelete marks id busy. ok is false when the task is unknown or busy.
func (s *State) BeginDelete(id string) bool {
	if _, found := s.Find(id); !found || s.Busy(id) {
		return false
	}
	s.busy[id] = struct{}{}
	return true
}

func (s *State) DeleteSucceeded(id string) {
	delete(s.busy, id)
	out := s.Tasks[:0]
	for _, t := range s.Tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.Tasks = out
	s.Err = ""
}

func (s *State) DeleteFailed(id string) {
	delete(s.busy, id)
	s.Err = MsgDeleteFailed
}
