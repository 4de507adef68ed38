package api

type createTaskRequest struct {
	Title string `json:"title"`
}

type updateTaskRequest struct {
	Completed bool `json:"completed"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}
