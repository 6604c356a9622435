package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	log "github.com/sirupsen/logrus"
	"math"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Location represents a geographical location with latitude and longitude coordinates.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Campuses used as school locations.
var campuses = []Location{
	{Lat: 51.5074, Lon: -0.1278}, // London
	{Lat: 40.4168, Lon: -3.7038}, // Madrid
	{Lat: 35.1856, Lon: 33.3823}, // Nicosia
	{Lat: 48.8566, Lon: 2.3522},  // Paris
	{Lat: 41.0082, Lon: 28.9784}, // Istanbul
	{Lat: 51.4816, Lon: -3.1791}, // Cardiff
}

func jitterLocation(base Location, meters float64) Location {
	latMetersPerDeg := 111320.0
	lonMetersPerDeg := 111320.0 * math.Cos(base.Lat*math.Pi/180)
	dLat := (rand.Float64()*2 - 1) * (meters / latMetersPerDeg)
	dLon := (rand.Float64()*2 - 1) * (meters / lonMetersPerDeg)
	return Location{Lat: base.Lat + dLat, Lon: base.Lon + dLon}
}

var authToken string

func authorizedPost(url string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

// envelope mirrors the API's uniform response body.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// postJSON posts a payload and decodes the envelope data into out.
func postJSON(url string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	resp, err := authorizedPost(url, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%s returned status %d: %s", url, resp.StatusCode, env.Message)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode data from %s: %w", url, err)
		}
	}
	return nil
}

type createdID struct {
	ID string `json:"id"`
}

func createSchool(apiURL string) (string, error) {
	names := []string{"Riverside Primary", "Hillcrest Academy", "Oakwood School", "Meadowbrook Elementary"}
	school := map[string]interface{}{
		"name":    names[rand.Intn(len(names))],
		"address": "1 School Lane",
		"city":    "Simulated City",
		"phone":   fmt.Sprintf("+44 20 %04d %04d", rand.Intn(10000), rand.Intn(10000)),
	}
	var created createdID
	if err := postJSON(apiURL+"/schools", school, &created); err != nil {
		return "", err
	}
	log.WithFields(log.Fields{"school_id": created.ID, "name": school["name"]}).Info("Created school")
	return created.ID, nil
}

func createVehicle(apiURL string, campus Location) (string, error) {
	makes := []string{"Mercedes", "Iveco", "Ford", "Volvo"}
	models := []string{"Sprinter", "Daily", "Transit", "9900"}
	idx := rand.Intn(len(makes))
	vehicle := map[string]interface{}{
		"owner_id":            "sim-owner",
		"registration_number": fmt.Sprintf("SIM-%04d", rand.Intn(10000)),
		"type":                []string{"BUS", "VAN"}[rand.Intn(2)],
		"make":                makes[idx],
		"model":               models[idx],
		"year":                2018 + rand.Intn(7),
		"capacity":            12 + rand.Intn(30),
		"current_location":    jitterLocation(campus, 2000),
	}
	var created createdID
	if err := postJSON(apiURL+"/vehicles", vehicle, &created); err != nil {
		return "", err
	}
	log.WithFields(log.Fields{
		"vehicle_id":   created.ID,
		"registration": vehicle["registration_number"],
		"type":         vehicle["type"],
	}).Info("Created vehicle")
	return created.ID, nil
}

func createStudents(apiURL, schoolID string, campus Location, count int) []studentState {
	firstNames := []string{"Ada", "Ben", "Cem", "Dora", "Eli", "Faye", "Gus", "Hana"}
	students := make([]studentState, 0, count)
	for i := 0; i < count; i++ {
		pickup := jitterLocation(campus, 3000)
		student := map[string]interface{}{
			"school_id":    schoolID,
			"name":         fmt.Sprintf("%s Simson", firstNames[rand.Intn(len(firstNames))]),
			"grade":        fmt.Sprintf("%d", 1+rand.Intn(6)),
			"pickup_point": pickup,
		}
		var created createdID
		if err := postJSON(apiURL+"/students", student, &created); err != nil {
			log.WithError(err).Error("Failed to create student")
			continue
		}
		students = append(students, studentState{ID: created.ID, PickupPoint: pickup})
	}
	log.WithField("created_students", len(students)).Info("Student creation completed")
	return students
}

func createTrip(apiURL, schoolID, vehicleID, tripType string) (string, error) {
	trip := map[string]interface{}{
		"schoolId":    schoolID,
		"vehicleId":   vehicleID,
		"name":        fmt.Sprintf("Morning run %d", rand.Intn(100)),
		"number":      fmt.Sprintf("T-%04d", rand.Intn(10000)),
		"type":        tripType,
		"scheduledAt": time.Now().Add(5 * time.Minute),
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := postJSON(apiURL+"/trips", trip, &created); err != nil {
		return "", err
	}
	log.WithFields(log.Fields{"trip_id": created.ID, "type": tripType}).Info("Created trip")
	return created.ID, nil
}

type studentState struct {
	ID          string
	PickupPoint Location
}

type runState struct {
	SchoolID  string
	VehicleID string
	TripID    string
	Campus    Location
	Students  []studentState
}

func postDispatchEvent(apiURL string, run runState, studentID, eventType string, at Location, remarks string) {
	payload := map[string]interface{}{
		"tripId":    run.TripID,
		"studentId": studentID,
		"schoolId":  run.SchoolID,
		"vehicleId": run.VehicleID,
		"eventType": eventType,
		"remarks":   remarks,
		"lat":       at.Lat,
		"lon":       at.Lon,
		"createdBy": "simulator",
	}
	if err := postJSON(apiURL+"/dispatch-logs/create", payload, nil); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"student_id": studentID,
		}).Error("Failed to post dispatch event")
		return
	}
	log.WithFields(log.Fields{
		"event_type": eventType,
		"student_id": studentID,
		"trip_id":    run.TripID,
	}).Info("Posted dispatch event")
}

// simulatePickupRun drives one morning cycle: collect each student at
// their pickup point, then deliver the bus load through the school gate.
func simulatePickupRun(apiURL string, run runState, interval time.Duration) {
	for _, student := range run.Students {
		postDispatchEvent(apiURL, run, student.ID, "PICKUP_FROM_PARENT",
			jitterLocation(student.PickupPoint, 50), "Picked up at home stop")
		time.Sleep(interval)
	}
	gate := jitterLocation(run.Campus, 30)
	for _, student := range run.Students {
		postDispatchEvent(apiURL, run, student.ID, "GATE_ENTRY", gate, "Arrived at school gate")
		time.Sleep(interval / 2)
		postDispatchEvent(apiURL, run, student.ID, "DROP_TO_SCHOOL", gate, "Handed over to school staff")
		time.Sleep(interval / 2)
	}
}

// simulateDropRun drives the afternoon cycle back out of the gate and
// home to each pickup point.
func simulateDropRun(apiURL string, run runState, interval time.Duration) {
	gate := jitterLocation(run.Campus, 30)
	for _, student := range run.Students {
		postDispatchEvent(apiURL, run, student.ID, "PICKUP_FROM_SCHOOL", gate, "Collected from school staff")
		time.Sleep(interval / 2)
		postDispatchEvent(apiURL, run, student.ID, "GATE_EXIT", gate, "Left school gate")
		time.Sleep(interval / 2)
	}
	for _, student := range run.Students {
		postDispatchEvent(apiURL, run, student.ID, "DROP_TO_PARENT",
			jitterLocation(student.PickupPoint, 50), "Dropped at home stop")
		time.Sleep(interval)
	}
}

func recordTripStatus(apiURL, tripID, status string) {
	payload := map[string]interface{}{
		"status":    status,
		"createdBy": "simulator",
	}
	if err := postJSON(fmt.Sprintf("%s/trips/%s/status", apiURL, tripID), payload, nil); err != nil {
		log.WithError(err).WithField("status", status).Error("Failed to record trip status")
		return
	}
	log.WithFields(log.Fields{"trip_id": tripID, "status": status}).Info("Recorded trip status")
}

func main() {
	// JWT for the protected API
	authToken = os.Getenv("SIM_AUTH_TOKEN")

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	studentCount := 6
	if val := os.Getenv("STUDENT_COUNT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			studentCount = n
		}
	}

	interval := 2 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	log.WithFields(log.Fields{
		"api_url":       apiURL,
		"student_count": studentCount,
		"interval":      interval,
	}).Info("Starting school transit simulation")

	campus := campuses[rand.Intn(len(campuses))]

	schoolID, err := createSchool(apiURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to create school. Ensure SIM_AUTH_TOKEN is valid and the API is reachable")
	}
	vehicleID, err := createVehicle(apiURL, campus)
	if err != nil {
		log.WithError(err).Fatal("Failed to create vehicle")
	}
	students := createStudents(apiURL, schoolID, campus, studentCount)
	if len(students) == 0 {
		log.Fatal("No students created, nothing to simulate")
	}

	for cycle := 1; ; cycle++ {
		tripID, err := createTrip(apiURL, schoolID, vehicleID, "PICKUP")
		if err != nil {
			log.WithError(err).Error("Failed to create trip, retrying next cycle")
			time.Sleep(10 * interval)
			continue
		}
		run := runState{
			SchoolID:  schoolID,
			VehicleID: vehicleID,
			TripID:    tripID,
			Campus:    campus,
			Students:  students,
		}

		log.WithFields(log.Fields{"cycle": cycle, "trip_id": tripID}).Info("Starting pickup run")
		simulatePickupRun(apiURL, run, interval)
		recordTripStatus(apiURL, tripID, "COMPLETED")

		dropTripID, err := createTrip(apiURL, schoolID, vehicleID, "DROP")
		if err != nil {
			log.WithError(err).Error("Failed to create drop trip, retrying next cycle")
			time.Sleep(10 * interval)
			continue
		}
		run.TripID = dropTripID

		log.WithFields(log.Fields{"cycle": cycle, "trip_id": dropTripID}).Info("Starting drop run")
		recordTripStatus(apiURL, dropTripID, "IN_PROGRESS")
		simulateDropRun(apiURL, run, interval)
		recordTripStatus(apiURL, dropTripID, "COMPLETED")

		time.Sleep(10 * interval)
	}
}
