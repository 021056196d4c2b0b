package controllers

import (
	"net/http"

	"matchview/helpers"
)

// HealthCheckHandler provides a basic health check
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Server is running!"})
}

// NotFoundHandler answers unknown routes in the API's error shape
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	helpers.WriteErrorResponse(w, http.StatusNotFound, "Not found")
}
