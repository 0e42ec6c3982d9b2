package bulkupload

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sharath018/realestate-backend/internal/auth"
	"github.com/sharath018/realestate-backend/internal/developer"
	"github.com/sharath018/realestate-backend/internal/launch"
	"github.com/sharath018/realestate-backend/internal/lead"
	"github.com/sharath018/realestate-backend/internal/location"
	"github.com/sharath018/realestate-backend/internal/media"
	"github.com/sharath018/realestate-backend/internal/property"
	"github.com/sharath018/realestate-backend/internal/types"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

// deps is what every pipeline shares for one import call.
type deps struct {
	store  Store
	images media.Resolver
	opts   Options
	isID   IDMatcher
}

type (
	usersPipeline        struct{ deps }
	developersPipeline   struct{ deps }
	governoratesPipeline struct{ deps }
	citiesPipeline       struct{ deps }
	areasPipeline        struct{ deps }
	propertiesPipeline   struct{ deps }
	leadsPipeline        struct{ deps }
	launchesPipeline     struct{ deps }
)

// round2 converts a price to two decimal places before it reaches a decimal column.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func floatPtr(v types.FlexFloat) *float64 {
	if !v.Valid() {
		return nil
	}
	f := round2(v.Value)
	return &f
}

func intPtr(v types.FlexFloat) *int {
	if !v.Valid() {
		return nil
	}
	n := int(math.Round(v.Value))
	return &n
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// resolveImage returns nil and a warning when ref cannot be hosted.
func (d deps) resolveImage(ctx context.Context, idx int, field, ref string) (*string, *ImageWarning) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	url, err := d.images.ResolveImageURL(ctx, ref)
	if err != nil || url == "" {
		return nil, imageWarning(idx, field, ref, err)
	}
	return &url, nil
}

func imageWarning(idx int, field, ref string, err error) *ImageWarning {
	msg := "image could not be resolved"
	if err != nil {
		msg += ": " + err.Error()
	}
	return &ImageWarning{Index: idx, Field: field, Reference: ref, Message: msg}
}

// ===============================
// Users
// ===============================

func applyPermissions(p auth.Permissions, in *PermissionsInput) auth.Permissions {
	if in == nil {
		return p
	}
	p.CanManageUsers = in.CanManageUsers.Or(p.CanManageUsers)
	p.CanManageProperties = in.CanManageProperties.Or(p.CanManageProperties)
	p.CanApproveProperties = in.CanApproveProperties.Or(p.CanApproveProperties)
	p.CanManageLeads = in.CanManageLeads.Or(p.CanManageLeads)
	p.CanBulkUpload = in.CanBulkUpload.Or(p.CanBulkUpload)
	return p
}

func (usersPipeline) build(_ context.Context, _ int, r *UserRecord, _ Resolution) (*auth.User, []ImageWarning, error) {
	password := r.Password.String()
	if password == "" {
		// Imported accounts without a password must go through a reset.
		password = uuid.NewString()
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	role := userRoles.normalizeOr(r.Role.String(), auth.RoleUser)
	return &auth.User{
		Name:         r.Name.String(),
		Email:        strings.ToLower(r.Email.String()),
		Phone:        cleanPhone(r.Phone.String()),
		PasswordHash: hash,
		Role:         role,
		Hierarchy:    auth.HierarchyForRole(role),
		Permissions:  datatypes.NewJSONType(applyPermissions(auth.DefaultPermissions(role), r.Permissions)),
		IsActive:     r.IsActive.Or(true),
	}, nil, nil
}

// ===============================
// Developers
// ===============================

func (p developersPipeline) build(ctx context.Context, idx int, r *DeveloperRecord, _ Resolution) (*developer.Developer, []ImageWarning, error) {
	d := &developer.Developer{
		Name:        r.Name.String(),
		Slug:        r.Slug.String(),
		Description: r.Description.String(),
	}
	var warnings []ImageWarning
	logo, w := p.resolveImage(ctx, idx, "logo", r.Logo.String())
	if w != nil {
		warnings = append(warnings, *w)
	}
	d.Logo = logo
	return d, warnings, nil
}

// ===============================
// Locations
// ===============================

func (governoratesPipeline) build(_ context.Context, _ int, r *GovernorateRecord, _ Resolution) (*location.Governorate, []ImageWarning, error) {
	return &location.Governorate{
		Name:                   r.Name.String(),
		AnnualAppreciationRate: round2(r.AnnualAppreciationRate.Value),
		Description:            r.Description.String(),
	}, nil, nil
}

func (citiesPipeline) build(_ context.Context, _ int, r *CityRecord, res Resolution) (*location.City, []ImageWarning, error) {
	return &location.City{
		Name:                   r.Name.String(),
		GovernorateID:          res.idPtr("governorate"),
		AnnualAppreciationRate: round2(r.AnnualAppreciationRate.Value),
		Description:            r.Description.String(),
	}, nil, nil
}

func (areasPipeline) build(_ context.Context, _ int, r *AreaRecord, res Resolution) (*location.Area, []ImageWarning, error) {
	cityID := res.id("city")
	if cityID == "" {
		return nil, nil, fmt.Errorf("area %q has no resolved city", r.Name.String())
	}
	return &location.Area{
		Name:                   r.Name.String(),
		CityID:                 cityID,
		AnnualAppreciationRate: round2(r.AnnualAppreciationRate.Value),
		Description:            r.Description.String(),
	}, nil, nil
}

// ===============================
// Properties
// ===============================

// resolveGallery resolves every image of one record concurrently. Unresolvable
// entries are dropped with a warning; the rest keep their relative order.
func (p propertiesPipeline) resolveGallery(ctx context.Context, idx int, specs ImageList) ([]property.Image, []ImageWarning) {
	resolved := make([]*media.Object, len(specs))
	failures := make([]*ImageWarning, len(specs))

	var g errgroup.Group
	for i, spec := range specs {
		if spec == nil {
			continue
		}
		g.Go(func() error {
			order := i
			if spec.Order.Valid() {
				order = int(spec.Order.Value)
			}
			obj := media.Object{URL: spec.URL, Caption: spec.Caption, IsHero: spec.IsHero.Or(false), Order: order}
			out, err := p.images.ResolveImageObject(ctx, obj)
			if err != nil || out == nil || out.URL == "" {
				failures[i] = imageWarning(idx, fmt.Sprintf("images[%d]", i), spec.URL, err)
				return nil
			}
			resolved[i] = out
			return nil
		})
	}
	_ = g.Wait()

	var images []property.Image
	var warnings []ImageWarning
	for i := range specs {
		if failures[i] != nil {
			warnings = append(warnings, *failures[i])
		}
		if obj := resolved[i]; obj != nil {
			images = append(images, property.Image{URL: obj.URL, Caption: obj.Caption, IsHero: obj.IsHero, Order: obj.Order})
		}
	}
	sort.SliceStable(images, func(a, b int) bool { return images[a].Order < images[b].Order })

	hasHero := false
	for _, img := range images {
		hasHero = hasHero || img.IsHero
	}
	if !hasHero && len(images) > 0 {
		images[0].IsHero = true
	}
	return images, warnings
}

func (p propertiesPipeline) build(ctx context.Context, idx int, r *PropertyRecord, res Resolution) (*property.Property, []ImageWarning, error) {
	approval := property.ApprovalPending
	if p.opts.Actor.CanAutoApprove() {
		approval = property.ApprovalApproved
	}

	images, warnings := p.resolveGallery(ctx, idx, r.Images)
	loc := r.Location

	prop := &property.Property{
		Title:           r.Title.String(),
		Description:     r.Description.String(),
		Type:            propertyTypes.normalizeOr(r.Type.String(), ""),
		Status:          propertyStatuses.normalizeOr(r.Status.String(), property.StatusForSale),
		DeveloperStatus: developerStatuses.normalizeOr(r.DeveloperStatus.String(), property.DeveloperStatusReady),
		Price:           round2(r.Price.Value),
		Currency:        currencies.normalizeOr(r.Currency.String(), property.CurrencyEGP),

		DeveloperID:   res.idPtr("developer"),
		GovernorateID: res.idPtr("governorate_ref"),
		CityID:        res.idPtr("city_ref"),
		AreaID:        res.idPtr("area_ref"),

		LocationAddress: loc.Address.String(),
		LocationCity:    loc.City.String(),
		LocationState:   loc.State.String(),
		LocationCountry: orDefault(loc.Country.String(), property.DefaultCountry),

		Bedrooms:  intPtr(r.Specifications.Bedrooms),
		Bathrooms: intPtr(r.Specifications.Bathrooms),
		AreaSize:  floatPtr(r.Specifications.Area),

		Features:  datatypes.NewJSONSlice([]string(r.Features)),
		Amenities: datatypes.NewJSONSlice([]string(r.Amenities)),
		Images:    datatypes.NewJSONSlice(images),

		ApprovalStatus: approval,
	}
	if prop.Type == "" {
		return nil, warnings, fmt.Errorf("property type %q has no storage value", r.Type.String())
	}
	if id := p.opts.Actor.UserID; id != "" {
		prop.CreatedByID = &id
	}
	return prop, warnings, nil
}

// ===============================
// Leads
// ===============================

func (leadsPipeline) build(_ context.Context, _ int, r *LeadRecord, res Resolution) (*lead.Lead, []ImageWarning, error) {
	return &lead.Lead{
		Name:            r.Name.String(),
		Email:           strings.ToLower(r.Email.String()),
		Phone:           cleanPhone(r.Phone.String()),
		RequiredService: leadServices.ptr(r.RequiredService.String()),
		PropertyType:    leadPropertyTypes.ptr(r.PropertyType.String()),
		Purpose:         leadPurposes.ptr(r.Purpose.String()),
		BudgetMin:       floatPtr(r.Budget.Min),
		BudgetMax:       floatPtr(r.Budget.Max),
		BudgetCurrency:  budgetCurrencies.normalizeOr(r.Budget.Currency.String(), property.CurrencyEGP),
		AssignedToID:    res.idPtr("assignedTo"),
		Notes:           r.Notes.String(),
		Source:          orDefault(r.Source.String(), "bulk_upload"),
		Status:          lead.StatusNew,
	}, nil, nil
}

// ===============================
// Launches
// ===============================

func (p launchesPipeline) build(ctx context.Context, idx int, r *LaunchRecord, res Resolution) (*launch.Launch, []ImageWarning, error) {
	launchDate, _ := parseLaunchDate(r.LaunchDate.String())
	l := &launch.Launch{
		Title:         r.Title.String(),
		Developer:     r.Developer.String(),
		DeveloperID:   res.idPtr("developer"),
		Description:   r.Description.String(),
		Location:      r.Location.String(),
		PropertyType:  launchTypes.ptr(r.PropertyType.String()),
		Status:        launchStatuses.normalizeOr(r.Status.String(), launch.StatusUpcoming),
		Currency:      currencies.normalizeOr(r.Currency.String(), property.CurrencyEGP),
		StartingPrice: floatPtr(r.StartingPrice),
		Area:          floatPtr(r.Area),
		Bedrooms:      intPtr(r.Bedrooms),
		Bathrooms:     intPtr(r.Bathrooms),
		LaunchDate:    launchDate,
	}
	if v := r.VideoURL.String(); v != "" {
		l.VideoURL = &v
	}

	var warnings []ImageWarning
	var w *ImageWarning
	if l.Image, w = p.resolveImage(ctx, idx, "image", r.Image.String()); w != nil {
		warnings = append(warnings, *w)
	}
	if l.CoverImage, w = p.resolveImage(ctx, idx, "coverImage", r.CoverImage.String()); w != nil {
		warnings = append(warnings, *w)
	}
	gallery := make([]string, 0, len(r.Gallery))
	for i, ref := range r.Gallery {
		url, w := p.resolveImage(ctx, idx, fmt.Sprintf("gallery[%d]", i), ref)
		if w != nil {
			warnings = append(warnings, *w)
			continue
		}
		if url != nil {
			gallery = append(gallery, *url)
		}
	}
	l.Gallery = datatypes.NewJSONSlice(gallery)
	return l, warnings, nil
}
