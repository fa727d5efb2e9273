package deploy

// Presenter receives a read-only view of the session once per tick.
type Presenter interface {
	Present(Snapshot)
}

// Feedback receives fire-and-forget notifications for sounds and haptics.
type Feedback interface {
	Notify(EventType)
}

// ResultSink persists or submits the payload of a finished session.
type ResultSink interface {
	SaveResult(Result) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(Snapshot)

// Present calls f(s).
func (f PresenterFunc) Present(s Snapshot) { f(s) }

// FeedbackFunc adapts a function to Feedback.
type FeedbackFunc func(EventType)

// Notify calls f(t).
func (f FeedbackFunc) Notify(t EventType) { f(t) }

// ResultSinkFunc adapts a function to ResultSink.
type ResultSinkFunc func(Result) error

// SaveResult calls f(r).
func (f ResultSinkFunc) SaveResult(r Result) error { return f(r) }
