package publishers

// Logger is the logging surface sinks report delivery results to.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// deliveryFields identifies a movie event in sink logs; extra entries are merged in.
func deliveryFields(publisherID string, evt Event, extra map[string]any) map[string]any {
	fields := map[string]any{
		"publisher_id": publisherID,
		"feed_id":      evt.FeedID,
		"movie_id":     evt.Movie.ID,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return fields
}
