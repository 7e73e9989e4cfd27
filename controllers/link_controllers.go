package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/SokolovEgor954/TheLastShelter/services"
	"github.com/SokolovEgor954/TheLastShelter/utils"
)

type LinkController struct {
	DB    *gorm.DB
	Links *services.LinkService
}

func NewLinkController(db *gorm.DB, links *services.LinkService) *LinkController {
	return &LinkController{DB: db, Links: links}
}

// IssueCode hands the caller a fresh 8-character link code, superseding any
// earlier one. The code is shown once and expires after 10 minutes.
func (lc *LinkController) IssueCode(c *gin.Context) {
	user, err := currentUser(c, lc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	code, err := lc.Links.Issue(user.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Link code issued", gin.H{"code": code})
}

// Unlink clears the caller's chat binding.
func (lc *LinkController) Unlink(c *gin.Context) {
	user, err := currentUser(c, lc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	if err := lc.Links.Unlink(user.ID); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Telegram unlinked", nil)
}
