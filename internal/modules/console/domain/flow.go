package domain

const (
	FlowNormal  = "normal"
	FlowCheckIn = "check-in"
)

// SendFlowOptions are the choices offered by the Send Message flow selector.
var SendFlowOptions = []string{FlowNormal, "checkIn"}

// UpdateFlowOptions are the choices offered by the Update Context flow selector.
var UpdateFlowOptions = []string{FlowNormal, FlowCheckIn}

// ContextBucket describes one fixed flow bucket rendered by the Get Context panel.
type ContextBucket struct {
	Flow  string
	Title string
	Empty string
}

// ContextBuckets lists the buckets in render order.
var ContextBuckets = []ContextBucket{
	{Flow: FlowNormal, Title: "Normal Flow Conversations", Empty: "No normal flow conversations found."},
	{Flow: FlowCheckIn, Title: "Check-In Flow Conversations", Empty: "No check-in flow conversations found."},
}
