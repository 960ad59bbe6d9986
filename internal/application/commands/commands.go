package commands

// Result is the tagged outcome every asynchronous application command
// resolves to. Commands never return Go errors across this boundary; UI
// layers branch on Success and render Message.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func Ok(message string) Result {
	return Result{Success: true, Message: message}
}

func Fail(message string) Result {
	return Result{Success: false, Message: message}
}
