package services

import (
	"database/sql"
	"fmt"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain"
	"taskerhub/internal/domain/models"
	"taskerhub/internal/repositories"
	"taskerhub/internal/utils"
)

// ProfileService covers profile reads/updates, address book management, and
// the tasker's own service listings.
type ProfileService struct {
	DB          *sql.DB
	UserRepo    repositories.UserRepo
	AddressRepo repositories.AddressRepo
	ServiceRepo repositories.ServiceRepo
	RequestID   string
}

func (s ProfileService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s ProfileService) users() repositories.UserRepo {
	if s.UserRepo.DB != nil {
		return s.UserRepo
	}
	return repositories.UserRepo{DB: s.db()}
}

func (s ProfileService) addresses() repositories.AddressRepo {
	if s.AddressRepo.DB != nil {
		return s.AddressRepo
	}
	return repositories.AddressRepo{DB: s.db()}
}

func (s ProfileService) listings() repositories.ServiceRepo {
	if s.ServiceRepo.DB != nil {
		return s.ServiceRepo
	}
	return repositories.ServiceRepo{DB: s.db()}
}

// Profile bundles the user row with its aggregate stats.
type Profile struct {
	User  models.User      `json:"user"`
	Stats models.UserStats `json:"stats"`
}

func (s ProfileService) Get(userID int64) (Profile, error) {
	user, err := s.users().GetByID(userID)
	if err != nil {
		return Profile{}, err
	}
	stats, err := s.users().GetStats(userID)
	if err != nil {
		return Profile{}, domain.InternalError{Err: err}
	}
	return Profile{User: user, Stats: stats}, nil
}

func (s ProfileService) Update(userID int64, upd models.UserUpdate) (Profile, error) {
	if upd.Locale != nil {
		switch *upd.Locale {
		case "fr", "en", "de", "ar":
		default:
			return Profile{}, domain.ValidationError{Field: "locale", Msg: "unsupported locale"}
		}
	}
	if err := s.users().UpdateProfile(userID, upd); err != nil {
		return Profile{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "profile", "update", fmt.Sprintf("user_id=%d", userID))
	return s.Get(userID)
}

func (s ProfileService) ListAddresses(userID int64) ([]models.Address, error) {
	out, err := s.addresses().ListForUser(userID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

func (s ProfileService) AddAddress(userID int64, a models.Address) (models.Address, error) {
	if utils.TrimOrEmpty(a.Line1) == "" {
		return models.Address{}, domain.ValidationError{Field: "line1", Msg: "required"}
	}
	if utils.TrimOrEmpty(a.City) == "" {
		return models.Address{}, domain.ValidationError{Field: "city", Msg: "required"}
	}
	a.UserID = userID
	id, err := s.addresses().Create(a)
	if err != nil {
		return models.Address{}, domain.InternalError{Err: err}
	}
	return s.addresses().GetByID(id)
}

func (s ProfileService) SetDefaultAddress(userID, addressID int64) error {
	return s.addresses().SetDefault(userID, addressID)
}

func (s ProfileService) DeleteAddress(userID, addressID int64) error {
	ok, err := s.addresses().Delete(userID, addressID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if !ok {
		return domain.NotFoundError{Resource: "address"}
	}
	return nil
}

// CreateListing publishes a new tasker service.
func (s ProfileService) CreateListing(taskerID int64, in models.TaskerService) (models.TaskerService, error) {
	title := utils.NormalizeSpace(in.Title)
	if title == "" {
		return models.TaskerService{}, domain.ValidationError{Field: "title", Msg: "required"}
	}
	if utils.TrimOrEmpty(in.Category) == "" {
		return models.TaskerService{}, domain.ValidationError{Field: "category", Msg: "required"}
	}
	if in.Price <= 0 {
		return models.TaskerService{}, domain.ValidationError{Field: "price", Msg: "must be positive"}
	}
	currency := utils.TrimOrEmpty(in.Currency)
	if currency == "" {
		currency = "EUR"
	}

	id, err := s.listings().Create(models.TaskerService{
		TaskerID:    taskerID,
		Title:       title,
		Description: utils.TrimOrEmpty(in.Description),
		Category:    utils.TrimOrEmpty(in.Category),
		Price:       in.Price,
		Currency:    currency,
	})
	if err != nil {
		return models.TaskerService{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "profile", "create_listing", fmt.Sprintf("service_id=%d", id))
	return s.listings().GetByID(id)
}

func (s ProfileService) UpdateListing(taskerID, serviceID int64, upd models.ServiceUpdate) (models.TaskerService, error) {
	listing, err := s.listings().GetByID(serviceID)
	if err != nil {
		return models.TaskerService{}, err
	}
	if listing.TaskerID != taskerID {
		return models.TaskerService{}, domain.ForbiddenError{Msg: "not your listing"}
	}
	if upd.Status != nil && *upd.Status != models.ServiceActive && *upd.Status != models.ServiceInactive {
		return models.TaskerService{}, domain.ValidationError{Field: "status", Msg: "must be active or inactive"}
	}
	if upd.Price != nil && *upd.Price <= 0 {
		return models.TaskerService{}, domain.ValidationError{Field: "price", Msg: "must be positive"}
	}
	if err := s.listings().Update(serviceID, upd); err != nil {
		return models.TaskerService{}, domain.InternalError{Err: err}
	}
	return s.listings().GetByID(serviceID)
}

func (s ProfileService) MyListings(taskerID int64) ([]models.TaskerService, error) {
	out, err := s.listings().ListByTasker(taskerID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}

// BrowseListings is the customer-facing catalog search.
func (s ProfileService) BrowseListings(category, search string, limit, offset int) ([]models.TaskerService, error) {
	out, err := s.listings().ListActive(category, search, limit, offset)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return out, nil
}
