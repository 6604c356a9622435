package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ukydev/school-transit/internal/db"
	"github.com/ukydev/school-transit/internal/models"
	"github.com/ukydev/school-transit/internal/response"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RefHandler exposes CRUD for the reference entities the dispatch core
// validates against: schools, vehicles, drivers and students.
type RefHandler struct {
	schools  db.SchoolCollection
	vehicles db.VehicleCollection
	drivers  db.DriverCollection
	students db.StudentCollection
}

// NewRefHandler creates a new reference entity handler
func NewRefHandler(schools db.SchoolCollection, vehicles db.VehicleCollection, drivers db.DriverCollection, students db.StudentCollection) *RefHandler {
	return &RefHandler{schools: schools, vehicles: vehicles, drivers: drivers, students: students}
}

type createdID struct {
	ID string `json:"id"`
}

// CreateSchool handles POST /api/schools
func (h *RefHandler) CreateSchool(w http.ResponseWriter, r *http.Request) {
	var school models.School
	if !decodeAndValidate(w, r, &school) {
		return
	}
	if school.Name == "" {
		response.BadRequest(w, "School name is required")
		return
	}
	school.IsActive = true

	id, err := h.schools.InsertSchool(r.Context(), school)
	if err != nil {
		response.InternalServerError(w, "Failed to create school")
		return
	}
	response.Created(w, "School created", createdID{ID: id})
}

// GetSchool handles GET /api/schools/{id}
func (h *RefHandler) GetSchool(w http.ResponseWriter, r *http.Request) {
	school, err := h.schools.FindSchoolByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondLookupError(w, "School", err)
		return
	}
	response.OK(w, "School retrieved", school)
}

// CreateVehicle handles POST /api/vehicles
func (h *RefHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle models.Vehicle
	if !decodeAndValidate(w, r, &vehicle) {
		return
	}
	if vehicle.RegistrationNumber == "" {
		response.BadRequest(w, "Registration number is required")
		return
	}
	if vehicle.Type != "BUS" && vehicle.Type != "VAN" {
		response.BadRequest(w, "Vehicle type must be BUS or VAN")
		return
	}

	existing, err := h.vehicles.FindVehicleByRegistration(r.Context(), vehicle.RegistrationNumber)
	if err != nil && err != mongo.ErrNoDocuments {
		response.InternalServerError(w, "Failed to create vehicle")
		return
	}
	if existing != nil {
		response.Conflict(w, "Vehicle with this registration number already exists")
		return
	}
	vehicle.IsActive = true

	id, err := h.vehicles.InsertVehicle(r.Context(), vehicle)
	if err != nil {
		response.InternalServerError(w, "Failed to create vehicle")
		return
	}
	response.Created(w, "Vehicle created", createdID{ID: id})
}

// GetVehicle handles GET /api/vehicles/{id}
func (h *RefHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondLookupError(w, "Vehicle", err)
		return
	}
	response.OK(w, "Vehicle retrieved", vehicle)
}

// CreateDriver handles POST /api/drivers
func (h *RefHandler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var driver models.Driver
	if !decodeAndValidate(w, r, &driver) {
		return
	}
	if driver.Name == "" || driver.SchoolID == "" {
		response.BadRequest(w, "Driver name and school id are required")
		return
	}
	driver.IsActive = true

	id, err := h.drivers.InsertDriver(r.Context(), driver)
	if err != nil {
		response.InternalServerError(w, "Failed to create driver")
		return
	}
	response.Created(w, "Driver created", createdID{ID: id})
}

// GetDriver handles GET /api/drivers/{id}
func (h *RefHandler) GetDriver(w http.ResponseWriter, r *http.Request) {
	driver, err := h.drivers.FindDriverByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondLookupError(w, "Driver", err)
		return
	}
	response.OK(w, "Driver retrieved", driver)
}

// CreateStudent handles POST /api/students
func (h *RefHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var student models.Student
	if !decodeAndValidate(w, r, &student) {
		return
	}
	if student.Name == "" || student.SchoolID == "" {
		response.BadRequest(w, "Student name and school id are required")
		return
	}
	student.IsActive = true

	id, err := h.students.InsertStudent(r.Context(), student)
	if err != nil {
		response.InternalServerError(w, "Failed to create student")
		return
	}
	response.Created(w, "Student created", createdID{ID: id})
}

// GetStudent handles GET /api/students/{id}
func (h *RefHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	student, err := h.students.FindStudentByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondLookupError(w, "Student", err)
		return
	}
	response.OK(w, "Student retrieved", student)
}

func respondLookupError(w http.ResponseWriter, entity string, err error) {
	if err == mongo.ErrNoDocuments {
		response.NotFound(w, entity+" not found")
		return
	}
	if errors.Is(err, primitive.ErrInvalidHex) {
		response.BadRequest(w, "Invalid "+entity+" id")
		return
	}
	response.InternalServerError(w, "Failed to retrieve "+entity)
}
