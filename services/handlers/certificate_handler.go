package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/solomon244/Code-Academy/dto"
	"github.com/solomon244/Code-Academy/shared"
)

type CertificateHandler struct {
	certificateSvc CertificateServiceInterface
}

func NewCertificateHandler(certificateSvc CertificateServiceInterface) *CertificateHandler {
	return &CertificateHandler{certificateSvc: certificateSvc}
}

// @Summary Issue certificate
// @Description Issue the course certificate once every lesson is complete. Returns the existing certificate on repeat calls.
// @Tags certificates
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param request body dto.IssueCertificateRequest true "Course"
// @Success 200 {object} shared.Response{data=dto.CertificateResponse}
// @Success 201 {object} shared.Response{data=dto.CertificateResponse}
// @Failure 400 {object} shared.Response{data=dto.CertificateProgress}
// @Failure 404 {object} shared.Response
// @Router /api/v1/certificates [post]
func (h *CertificateHandler) IssueCertificate(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req dto.IssueCertificateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	cert, created, err := h.certificateSvc.IssueCertificate(c.UserContext(), identity, req.CourseID)
	if err != nil {
		return err
	}

	if created {
		return shared.ResponseJSON(c, fiber.StatusCreated, "Certificate issued", cert)
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Certificate already issued", cert)
}

// @Summary List certificates
// @Tags certificates
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=[]dto.CertificateResponse}
// @Router /api/v1/certificates [get]
func (h *CertificateHandler) ListCertificates(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	res, err := h.certificateSvc.ListCertificates(c.UserContext(), identity.UserID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", res)
}

// @Summary Verify certificate
// @Description Public lookup of a certificate by its number
// @Tags certificates
// @Produce json
// @Param number path string true "Certificate number"
// @Success 200 {object} shared.Response{data=dto.VerifyCertificateResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/certificates/verify/{number} [get]
func (h *CertificateHandler) VerifyCertificate(c *fiber.Ctx) error {
	res, err := h.certificateSvc.VerifyCertificate(c.UserContext(), c.Params("number"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderCacheControl, "max-age=60")
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", res)
}

// @Summary Certificate document
// @Description Returns a signed link to the certificate image, or the PNG itself when object storage is off
// @Tags certificates
// @Produce json,png
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path string true "Certificate ID"
// @Success 200 {object} shared.Response{data=dto.CertificateDocumentResponse}
// @Failure 404 {object} shared.Response
// @Router /api/v1/certificates/{id}/document [get]
func (h *CertificateHandler) CertificateDocument(c *fiber.Ctx) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	doc, err := h.certificateSvc.CertificateDocument(c.UserContext(), identity.UserID, c.Params("id"))
	if err != nil {
		return err
	}

	if doc.Link != nil {
		return shared.ResponseJSON(c, fiber.StatusOK, "Success", doc.Link)
	}

	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", doc.FileName))
	return c.Status(fiber.StatusOK).Send(doc.Content)
}
