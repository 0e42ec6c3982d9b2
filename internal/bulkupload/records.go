package bulkupload

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sharath018/realestate-backend/internal/types"
)

// Input shapes accepted per kind. Scalars are lenient so spreadsheet exports
// decode without a cleanup step.

type PermissionsInput struct {
	CanManageUsers       types.FlexBool `json:"canManageUsers"`
	CanManageProperties  types.FlexBool `json:"canManageProperties"`
	CanApproveProperties types.FlexBool `json:"canApproveProperties"`
	CanManageLeads       types.FlexBool `json:"canManageLeads"`
	CanBulkUpload        types.FlexBool `json:"canBulkUpload"`
}

type UserRecord struct {
	Name        types.FlexString  `json:"name"`
	Email       types.FlexString  `json:"email"`
	Phone       types.FlexString  `json:"phone"`
	Password    types.FlexString  `json:"password"`
	Role        types.FlexString  `json:"role"`
	IsActive    types.FlexBool    `json:"isActive"`
	Permissions *PermissionsInput `json:"permissions"`
}

type DeveloperRecord struct {
	Name        types.FlexString `json:"name"`
	Slug        types.FlexString `json:"slug"`
	Logo        types.FlexString `json:"logo"`
	Description types.FlexString `json:"description"`
}

type GovernorateRecord struct {
	Name                   types.FlexString `json:"name"`
	AnnualAppreciationRate types.FlexFloat  `json:"annualAppreciationRate"`
	Description            types.FlexString `json:"description"`
}

type CityRecord struct {
	Name                   types.FlexString `json:"name"`
	Governorate            types.FlexString `json:"governorate"`
	AnnualAppreciationRate types.FlexFloat  `json:"annualAppreciationRate"`
	Description            types.FlexString `json:"description"`
}

type AreaRecord struct {
	Name                   types.FlexString `json:"name"`
	City                   types.FlexString `json:"city"`
	Governorate            types.FlexString `json:"governorate"`
	AnnualAppreciationRate types.FlexFloat  `json:"annualAppreciationRate"`
	Description            types.FlexString `json:"description"`
}

type LocationInput struct {
	Address types.FlexString `json:"address"`
	City    types.FlexString `json:"city"`
	State   types.FlexString `json:"state"`
	Country types.FlexString `json:"country"`
}

type SpecificationsInput struct {
	Bedrooms  types.FlexFloat `json:"bedrooms"`
	Bathrooms types.FlexFloat `json:"bathrooms"`
	Area      types.FlexFloat `json:"area"`
}

// ImageSpec is either a bare reference string or an object.
type ImageSpec struct {
	URL     string
	Caption string
	IsHero  types.FlexBool
	Order   types.FlexFloat
}

func (s *ImageSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			URL     types.FlexString `json:"url"`
			Caption types.FlexString `json:"caption"`
			IsHero  types.FlexBool   `json:"isHero"`
			Order   types.FlexFloat  `json:"order"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("image: %w", err)
		}
		*s = ImageSpec{URL: obj.URL.String(), Caption: obj.Caption.String(), IsHero: obj.IsHero, Order: obj.Order}
		return nil
	}
	var ref types.FlexString
	if err := json.Unmarshal(data, &ref); err != nil {
		return fmt.Errorf("image: %w", err)
	}
	*s = ImageSpec{URL: ref.String()}
	return nil
}

// ImageList accepts an array, a single image, or a comma-separated string of references.
type ImageList []*ImageSpec

func (l *ImageList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var refs types.StringList
		if err := json.Unmarshal(data, &refs); err != nil {
			return err
		}
		out := make(ImageList, 0, len(refs))
		for _, ref := range refs {
			out = append(out, &ImageSpec{URL: ref})
		}
		*l = out
		return nil
	}
	var list types.FlexList[*ImageSpec]
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*l = ImageList(list.Slice())
	return nil
}

type PropertyRecord struct {
	Title           types.FlexString `json:"title"`
	Description     types.FlexString `json:"description"`
	Type            types.FlexString `json:"type"`
	Status          types.FlexString `json:"status"`
	DeveloperStatus types.FlexString `json:"developerStatus"`
	Price           types.FlexFloat  `json:"price"`
	Currency        types.FlexString `json:"currency"`

	Developer      types.FlexString `json:"developer"`
	GovernorateRef types.FlexString `json:"governorate_ref"`
	CityRef        types.FlexString `json:"city_ref"`
	AreaRef        types.FlexString `json:"area_ref"`

	Location       LocationInput       `json:"location"`
	Specifications SpecificationsInput `json:"specifications"`

	Features  types.StringList `json:"features"`
	Amenities types.StringList `json:"amenities"`
	Images    ImageList        `json:"images"`
}

// hasHierarchicalRefs reports whether any of the governorate/city/area refs is set.
func (p *PropertyRecord) hasHierarchicalRefs() bool {
	return p.GovernorateRef.String() != "" || p.CityRef.String() != "" || p.AreaRef.String() != ""
}

type BudgetInput struct {
	Min      types.FlexFloat  `json:"min"`
	Max      types.FlexFloat  `json:"max"`
	Currency types.FlexString `json:"currency"`
}

type LeadRecord struct {
	Name            types.FlexString `json:"name"`
	Email           types.FlexString `json:"email"`
	Phone           types.FlexString `json:"phone"`
	RequiredService types.FlexString `json:"requiredService"`
	PropertyType    types.FlexString `json:"propertyType"`
	Purpose         types.FlexString `json:"purpose"`
	Budget          BudgetInput      `json:"budget"`
	AssignedTo      types.FlexString `json:"assignedTo"`
	Notes           types.FlexString `json:"notes"`
	Source          types.FlexString `json:"source"`
}

type LaunchRecord struct {
	Title         types.FlexString `json:"title"`
	Developer     types.FlexString `json:"developer"`
	Description   types.FlexString `json:"description"`
	Location      types.FlexString `json:"location"`
	PropertyType  types.FlexString `json:"propertyType"`
	Status        types.FlexString `json:"status"`
	Currency      types.FlexString `json:"currency"`
	StartingPrice types.FlexFloat  `json:"startingPrice"`
	Area          types.FlexFloat  `json:"area"`
	Bedrooms      types.FlexFloat  `json:"bedrooms"`
	Bathrooms     types.FlexFloat  `json:"bathrooms"`
	LaunchDate    types.FlexString `json:"launchDate"`
	Image         types.FlexString `json:"image"`
	CoverImage    types.FlexString `json:"coverImage"`
	Gallery       types.StringList `json:"gallery"`
	VideoURL      types.FlexString `json:"videoUrl"`
}
