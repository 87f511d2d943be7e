package settings

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentaltax/dentaltax/internal/domain/patient"
	"github.com/dentaltax/dentaltax/internal/platform/db"
)

type Handler struct {
	store    *Store
	patients *patient.Service
}

func NewHandler(store *Store, patients *patient.Service) *Handler {
	return &Handler{store: store, patients: patients}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/settings", h.GetSettings)
	api.PUT("/settings", h.UpdateSettings)
	api.POST("/settings/patient", h.SelectPatient)
	api.DELETE("/settings/patient", h.ClearPatient)
}

type settingsDTO struct {
	ClinicName             string           `json:"clinic_name"`
	TaxID                  string           `json:"tax_id"`
	RegistrationCode       string           `json:"registration_code"`
	PreparerName           string           `json:"preparer_name"`
	CopiesCount            int              `json:"copies_count"`
	TaxOfficeCode          string           `json:"tax_office_code"`
	OrgType                int              `json:"org_type"`
	SignerType             int              `json:"signer_type"`
	RepresentativeDocument string           `json:"representative_document"`
	DigitalSignerName      string           `json:"digital_signer_name"`
	ExportPath             string           `json:"export_path"`
	ProcedureType          int              `json:"procedure_type"`
	SelectedPatient        *patient.Patient `json:"selected_patient,omitempty"`
	ProcedureCategories    []string         `json:"procedure_categories"`
	SelectedCategories     []string         `json:"selected_categories"`
}

func toDTO(s *Settings) *settingsDTO {
	return &settingsDTO{
		ClinicName:             s.ClinicName,
		TaxID:                  s.TaxID,
		RegistrationCode:       s.RegistrationCode,
		PreparerName:           s.PreparerName,
		CopiesCount:            s.CopiesCount,
		TaxOfficeCode:          s.TaxOfficeCode,
		OrgType:                s.OrgType,
		SignerType:             s.SignerType,
		RepresentativeDocument: s.RepresentativeDocument,
		DigitalSignerName:      s.DigitalSignerName,
		ExportPath:             s.ExportPath,
		ProcedureType:          s.ProcedureType,
		SelectedPatient:        s.SelectedPatient,
		ProcedureCategories:    s.ProcedureCategories(),
		SelectedCategories:     s.SelectedCategories(),
	}
}

func (dto *settingsDTO) validate() error {
	if dto.CopiesCount <= 0 {
		return errors.New("copies_count must be positive")
	}
	if dto.OrgType != OrgTypeOrganization && dto.OrgType != OrgTypeSoleProprietor {
		return errors.New("org_type must be 1 or 2")
	}
	if dto.SignerType != SignerTypeHead && dto.SignerType != SignerTypeRepresentative {
		return errors.New("signer_type must be 1 or 2")
	}
	if dto.ProcedureType != 1 && dto.ProcedureType != 2 {
		return errors.New("procedure_type must be 1 or 2")
	}
	return nil
}

func (h *Handler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, toDTO(h.store.Snapshot()))
}

// UpdateSettings replaces every field except the selected patient,
// which has its own endpoint.
func (h *Handler) UpdateSettings(c echo.Context) error {
	var dto settingsDTO
	if err := c.Bind(&dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := dto.validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.store.Update(func(s *Settings) {
		s.ClinicName = dto.ClinicName
		s.TaxID = dto.TaxID
		s.RegistrationCode = dto.RegistrationCode
		s.PreparerName = dto.PreparerName
		s.CopiesCount = dto.CopiesCount
		s.TaxOfficeCode = dto.TaxOfficeCode
		s.OrgType = dto.OrgType
		s.SignerType = dto.SignerType
		s.RepresentativeDocument = dto.RepresentativeDocument
		s.DigitalSignerName = dto.DigitalSignerName
		s.ExportPath = dto.ExportPath
		s.ProcedureType = dto.ProcedureType
		s.SetProcedureCategories(dto.ProcedureCategories)
		s.SetSelectedCategories(dto.SelectedCategories)
	})
	return c.JSON(http.StatusOK, toDTO(h.store.Snapshot()))
}

type selectPatientRequest struct {
	PatientID int `json:"patient_id"`
}

func (h *Handler) SelectPatient(c echo.Context) error {
	var req selectPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id must be positive")
	}

	p, err := h.patients.Get(c.Request().Context(), req.PatientID)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		if db.IsDataAccess(err) {
			return echo.NewHTTPError(http.StatusBadGateway, "clinic database unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.store.Update(func(s *Settings) { s.SelectedPatient = p })
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ClearPatient(c echo.Context) error {
	h.store.Update(func(s *Settings) { s.SelectedPatient = nil })
	return c.NoContent(http.StatusNoContent)
}
