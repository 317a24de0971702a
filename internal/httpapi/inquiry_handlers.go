package httpapi

import (
	"net/http"
	"strings"

	"admitdesk.org/internal/admissions"
	"admitdesk.org/internal/auth"
)

type submitInquiryRequest struct {
	CollegeID          string   `json:"college_id"`
	CandidateName      string   `json:"candidate_name"`
	CandidateMobile    string   `json:"candidate_mobile"`
	CandidateEmail     string   `json:"candidate_email"`
	ParentMobile       string   `json:"parent_mobile"`
	ResidentialAddress string   `json:"residential_address"`
	TwelfthPercentage  *float64 `json:"twelfth_percentage"`
	YearOfPassing      int      `json:"year_of_passing"`
	TwelfthBoard       string   `json:"twelfth_board"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type recordFeeRequest struct {
	Amount         int64  `json:"amount"`
	PaymentMode    string `json:"payment_mode"`
	TransactionRef string `json:"transaction_ref"`
	Remarks        string `json:"remarks"`
}

// handleInquirySubmission is the public intake endpoint. A failing
// eligibility check is not an error: the inquiry is persisted either way,
// only the envelope message differs.
func (a *API) handleInquirySubmission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req submitInquiryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	inq, err := a.svc.Admissions.Submit(r.Context(), admissions.SubmitRequest{
		CollegeID:          req.CollegeID,
		CandidateName:      req.CandidateName,
		CandidateMobile:    req.CandidateMobile,
		CandidateEmail:     req.CandidateEmail,
		ParentMobile:       req.ParentMobile,
		ResidentialAddress: req.ResidentialAddress,
		TwelfthPercentage:  req.TwelfthPercentage,
		YearOfPassing:      req.YearOfPassing,
		TwelfthBoard:       req.TwelfthBoard,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	if inq.Eligibility == admissions.NotEligible {
		writeJSON(w, http.StatusCreated, envelope{
			Success: false,
			Message: "candidate does not meet the eligibility criteria",
			Data:    inq,
		})
		return
	}
	writeSuccess(w, http.StatusCreated, "inquiry submitted successfully", inq)
}

func (a *API) handleInquiriesCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	p, ok := principal(w, r)
	if !ok {
		return
	}
	items, err := a.svc.Admissions.List(r.Context(), p)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", items)
}

func (a *API) handleInquiryResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/inquiries/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if id, found := strings.CutSuffix(path, "/status"); found {
		if r.Method != http.MethodPut {
			methodNotAllowed(w, r, http.MethodPut)
			return
		}
		a.updateInquiryStatus(w, r, p, id)
		return
	}
	if id, found := strings.CutSuffix(path, "/record-fee"); found {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.recordFee(w, r, p, id)
		return
	}
	if id, found := strings.CutSuffix(path, "/fees"); found {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.listFees(w, r, p, id)
		return
	}
	if strings.Contains(path, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	inq, err := a.svc.Admissions.Get(r.Context(), p, path)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", inq)
}

func (a *API) updateInquiryStatus(w http.ResponseWriter, r *http.Request, p auth.Principal, id string) {
	var req updateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	status := admissions.WorkflowStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if err := a.svc.Admissions.UpdateStatus(r.Context(), p, id, status, req.Notes); err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "inquiry status updated", nil)
}

func (a *API) recordFee(w http.ResponseWriter, r *http.Request, p auth.Principal, id string) {
	var req recordFeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	fee, err := a.svc.Admissions.RecordFee(r.Context(), p, id, admissions.RecordFeeRequest{
		Amount:         req.Amount,
		PaymentMode:    req.PaymentMode,
		TransactionRef: req.TransactionRef,
		Remarks:        req.Remarks,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "fee recorded successfully", fee)
}

func (a *API) listFees(w http.ResponseWriter, r *http.Request, p auth.Principal, id string) {
	fees, err := a.svc.Admissions.ListFees(r.Context(), p, id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", fees)
}

func (a *API) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	p, ok := principal(w, r)
	if !ok {
		return
	}
	stats, err := a.svc.Admissions.DashboardStats(r.Context(), p)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", stats)
}
