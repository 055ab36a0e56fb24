package handlers

import (
	"net/http"

	"taskerhub/internal/domain/models"
	"taskerhub/internal/http/middleware"
	"taskerhub/internal/services"

	"github.com/gin-gonic/gin"
)

func profileService(c *gin.Context) services.ProfileService {
	return services.ProfileService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/profile
func GetProfile(c *gin.Context) {
	p, err := profileService(c).Get(middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// PUT /api/profile
func UpdateProfile(c *gin.Context) {
	var req models.UserUpdate
	if !BindJSONOrError(c, &req) {
		return
	}
	p, err := profileService(c).Update(middleware.UserID(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// GET /api/profile/addresses
func ListAddresses(c *gin.Context) {
	addrs, err := profileService(c).ListAddresses(middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addrs})
}

// POST /api/profile/addresses
func AddAddress(c *gin.Context) {
	var req models.Address
	if !BindJSONOrError(c, &req) {
		return
	}
	addr, err := profileService(c).AddAddress(middleware.UserID(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"address": addr})
}

// PUT /api/profile/addresses/:id/default
func SetDefaultAddress(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	if err := profileService(c).SetDefaultAddress(middleware.UserID(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/profile/addresses/:id
func DeleteAddress(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	if err := profileService(c).DeleteAddress(middleware.UserID(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/listings (tasker only)
func CreateListing(c *gin.Context) {
	var req models.TaskerService
	if !BindJSONOrError(c, &req) {
		return
	}
	listing, err := profileService(c).CreateListing(middleware.UserID(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"listing": listing})
}

// PUT /api/listings/:id (tasker only)
func UpdateListing(c *gin.Context) {
	id := pathID(c, "id")
	if id == 0 {
		return
	}
	var req models.ServiceUpdate
	if !BindJSONOrError(c, &req) {
		return
	}
	listing, err := profileService(c).UpdateListing(middleware.UserID(c), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

// GET /api/listings/mine (tasker only)
func ListMyListings(c *gin.Context) {
	listings, err := profileService(c).MyListings(middleware.UserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// GET /api/listings (public browse)
func BrowseListings(c *gin.Context) {
	limit, offset := paging(c)
	listings, err := profileService(c).BrowseListings(c.Query("category"), c.Query("search"), limit, offset)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}
