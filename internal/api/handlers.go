package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/FleetLink/FleetLink/internal/entity"
	"github.com/FleetLink/FleetLink/internal/errs"
	"github.com/FleetLink/FleetLink/internal/fleet"
	"github.com/go-chi/chi/v5"
)

// 传输层 DTO。实体不直接出网，字段在这里转一道。

type companyPayload struct {
	CompanyID   int    `json:"company_id"`
	CompanyName string `json:"company_name"`
}

type companyView struct {
	ID          uint          `json:"id"`
	CompanyID   int           `json:"company_id"`
	CompanyName string        `json:"company_name"`
	CreatedDate time.Time     `json:"created_date"`
	Drivers     []driverView  `json:"drivers,omitempty"`
	Vehicles    []vehicleView `json:"vehicles,omitempty"`
}

type driverPayload struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	CompanyID int    `json:"company_id"`
}

type driverView struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	CompanyID   int           `json:"company_id"`
	CreatedDate time.Time     `json:"created_date"`
	Vehicles    []vehicleView `json:"vehicles,omitempty"`
}

type vehiclePayload struct {
	ID               uint   `json:"id"`
	Model            string `json:"model"`
	GovernmentNumber string `json:"government_number"`
	CompanyID        int    `json:"company_id"`
	DriverID         *uint  `json:"driver_id"`
}

type vehicleView struct {
	ID               uint      `json:"id"`
	Model            string    `json:"model"`
	GovernmentNumber string    `json:"government_number"`
	CompanyID        int       `json:"company_id"`
	DriverID         *uint     `json:"driver_id"`
	CreatedDate      time.Time `json:"created_date"`
}

type userPayload struct {
	Login string      `json:"login"`
	Role  entity.Role `json:"role"`
}

type userView struct {
	Login       string      `json:"login"`
	Role        entity.Role `json:"role"`
	CreatedDate time.Time   `json:"created_date"`
}

type authPayload struct {
	Login    string      `json:"login"`
	Password string      `json:"password"`
	Role     entity.Role `json:"role,omitempty"`
}

type authView struct {
	Login     string      `json:"login"`
	Role      entity.Role `json:"role"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func toVehicleView(v entity.Vehicle) vehicleView {
	return vehicleView{
		ID:               v.ID,
		Model:            v.Model,
		GovernmentNumber: v.GovernmentNumber,
		CompanyID:        v.CompanyID,
		DriverID:         v.DriverID,
		CreatedDate:      v.CreatedDate,
	}
}

func toDriverView(d entity.Driver) driverView {
	view := driverView{ID: d.ID, Name: d.Name, CompanyID: d.CompanyID, CreatedDate: d.CreatedDate}
	for _, v := range d.Vehicles {
		view.Vehicles = append(view.Vehicles, toVehicleView(v))
	}
	return view
}

func toCompanyView(c entity.Company) companyView {
	view := companyView{
		ID:          c.ID,
		CompanyID:   c.CompanyID,
		CompanyName: c.CompanyName,
		CreatedDate: c.CreatedDate,
	}
	for _, d := range c.Drivers {
		view.Drivers = append(view.Drivers, toDriverView(d))
	}
	for _, v := range c.Vehicles {
		view.Vehicles = append(view.Vehicles, toVehicleView(v))
	}
	return view
}

func toUserView(u entity.User) userView {
	return userView{Login: u.Login, Role: u.Role, CreatedDate: u.CreatedDate}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondErr 把领域错误翻译成 HTTP 状态码。
func respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, errs.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case errors.Is(err, errs.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, fleet.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func urlInt(r *http.Request, key string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil {
		return 0, false
	}
	return n, true
}

func urlUint(r *http.Request, key string) (uint, bool) {
	n, err := strconv.ParseUint(chi.URLParam(r, key), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

func hardDelete(r *http.Request) bool {
	return r.URL.Query().Get("hard") == "true"
}

// ---- auth ----

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in authPayload
	if !decode(w, r, &in) {
		return
	}
	res, err := s.auth.Register(r.Context(), fleet.RegisterInput{
		Login:    in.Login,
		Password: in.Password,
		Role:     in.Role,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authView{
		Login:     res.User.Login,
		Role:      res.User.Role,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in authPayload
	if !decode(w, r, &in) {
		return
	}
	res, err := s.auth.Login(r.Context(), in.Login, in.Password)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authView{
		Login:     res.User.Login,
		Role:      res.User.Role,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	})
}

// ---- companies ----

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.fleet.GetAllCompanies(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	views := make([]companyView, 0, len(companies))
	for _, c := range companies {
		views = append(views, toCompanyView(c))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	companyID, ok := urlInt(r, "companyID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid company id")
		return
	}
	c, err := s.fleet.GetCompany(r.Context(), companyID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCompanyView(*c))
}

func (s *Server) handleAddCompany(w http.ResponseWriter, r *http.Request) {
	var in companyPayload
	if !decode(w, r, &in) {
		return
	}
	c, err := s.fleet.AddCompany(r.Context(), &entity.Company{
		CompanyID:   in.CompanyID,
		CompanyName: in.CompanyName,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCompanyView(*c))
}

func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	var in companyPayload
	if !decode(w, r, &in) {
		return
	}
	c, err := s.fleet.UpdateCompany(r.Context(), &entity.Company{
		CompanyID:   in.CompanyID,
		CompanyName: in.CompanyName,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCompanyView(*c))
}

func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	companyID, ok := urlInt(r, "companyID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid company id")
		return
	}
	var err error
	if hardDelete(r) {
		_, err = s.fleet.DeleteCompany(r.Context(), companyID)
	} else {
		_, err = s.fleet.RemoveCompany(r.Context(), companyID)
	}
	if err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- drivers ----

func (s *Server) handleListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := s.fleet.GetAllDrivers(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	views := make([]driverView, 0, len(drivers))
	for _, d := range drivers {
		views = append(views, toDriverView(d))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUint(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid driver id")
		return
	}
	d, err := s.fleet.GetDriver(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDriverView(*d))
}

func (s *Server) handleAddDriver(w http.ResponseWriter, r *http.Request) {
	var in driverPayload
	if !decode(w, r, &in) {
		return
	}
	d, err := s.fleet.AddDriver(r.Context(), &entity.Driver{
		Name:      in.Name,
		CompanyID: in.CompanyID,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDriverView(*d))
}

func (s *Server) handleUpdateDriver(w http.ResponseWriter, r *http.Request) {
	var in driverPayload
	if !decode(w, r, &in) {
		return
	}
	d := &entity.Driver{Name: in.Name, CompanyID: in.CompanyID}
	d.ID = in.ID
	upd, err := s.fleet.UpdateDriver(r.Context(), d)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDriverView(*upd))
}

func (s *Server) handleDeleteDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUint(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid driver id")
		return
	}
	var err error
	if hardDelete(r) {
		_, err = s.fleet.DeleteDriver(r.Context(), id)
	} else {
		_, err = s.fleet.RemoveDriver(r.Context(), id)
	}
	if err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- vehicles ----

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.fleet.GetAllVehicles(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	views := make([]vehicleView, 0, len(vehicles))
	for _, v := range vehicles {
		views = append(views, toVehicleView(v))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUint(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	v, err := s.fleet.GetVehicle(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleView(*v))
}

func (s *Server) handleAddVehicle(w http.ResponseWriter, r *http.Request) {
	var in vehiclePayload
	if !decode(w, r, &in) {
		return
	}
	v, err := s.fleet.AddVehicle(r.Context(), &entity.Vehicle{
		Model:            in.Model,
		GovernmentNumber: in.GovernmentNumber,
		CompanyID:        in.CompanyID,
		DriverID:         in.DriverID,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVehicleView(*v))
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var in vehiclePayload
	if !decode(w, r, &in) {
		return
	}
	v := &entity.Vehicle{
		Model:            in.Model,
		GovernmentNumber: in.GovernmentNumber,
		CompanyID:        in.CompanyID,
		DriverID:         in.DriverID,
	}
	v.ID = in.ID
	upd, err := s.fleet.UpdateVehicle(r.Context(), v)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleView(*upd))
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUint(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	var err error
	if hardDelete(r) {
		_, err = s.fleet.DeleteVehicle(r.Context(), id)
	} else {
		_, err = s.fleet.RemoveVehicle(r.Context(), id)
	}
	if err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- users ----

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.fleet.GetAllUsers(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.fleet.GetUserByLogin(r.Context(), chi.URLParam(r, "login"))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(*u))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var in userPayload
	if !decode(w, r, &in) {
		return
	}
	// 只允许改角色；口令修改走注册/单独流程，这里不接收明文
	current, err := s.fleet.GetUserByLogin(r.Context(), in.Login)
	if err != nil {
		respondErr(w, err)
		return
	}
	current.Role = in.Role
	upd, err := s.fleet.UpdateUser(r.Context(), current)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(*upd))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")
	var err error
	if hardDelete(r) {
		_, err = s.fleet.DeleteUser(r.Context(), login)
	} else {
		_, err = s.fleet.RemoveUser(r.Context(), login)
	}
	if err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
