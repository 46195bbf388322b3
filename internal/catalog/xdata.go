package catalog

import (
	"fmt"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/observable"
)

// ApplicationRegistry names an application that may attach extended data.
type ApplicationRegistry struct {
	tableObject
}

// NewApplicationRegistry creates a detached application registry.
func NewApplicationRegistry(name string) (*ApplicationRegistry, error) {
	if err := ValidateName(KindAppReg, name); err != nil {
		return nil, err
	}
	return newAppReg(name), nil
}

func newAppReg(name string) *ApplicationRegistry {
	a := &ApplicationRegistry{}
	a.init(a, KindAppReg, name)
	return a
}

// XDataRecord is one group code / value pair.
type XDataRecord struct {
	Code  int16
	Value any
}

// XData is extended data owned by one application.
type XData struct {
	appReg  *ApplicationRegistry
	records []XDataRecord
}

// NewXData creates extended data for appReg.
func NewXData(appReg *ApplicationRegistry) (*XData, error) {
	if appReg == nil {
		return nil, fmt.Errorf("%w: xdata needs an application registry", ErrInvalidArgument)
	}
	return &XData{appReg: appReg}, nil
}

// ApplicationRegistry returns the owning application. Once the carrier is
// registered this is the catalog's own instance.
func (x *XData) ApplicationRegistry() *ApplicationRegistry { return x.appReg }

// Records returns a copy of the records.
func (x *XData) Records() []XDataRecord {
	out := make([]XDataRecord, len(x.records))
	copy(out, x.records)
	return out
}

// AddRecord appends a record.
func (x *XData) AddRecord(code int16, value any) {
	x.records = append(x.records, XDataRecord{Code: code, Value: value})
}

// xdataObserver keeps application registries of attached xdata registered
// and referenced while the carrier lives in a catalog.
type xdataObserver struct {
	owner Object
	list  *observable.List[*XData]
}

func newXDataList(owner Object) *observable.List[*XData] {
	obs := &xdataObserver{owner: owner}
	obs.list = observable.NewList[*XData](obs)
	return obs.list
}

func (o *xdataObserver) BeforeAdd(x *XData) error {
	if x == nil || x.appReg == nil {
		return fmt.Errorf("%w: xdata needs an application registry", ErrInvalidArgument)
	}
	for _, cur := range o.list.Items() {
		if SameName(cur.appReg.Name(), x.appReg.Name()) {
			return fmt.Errorf("%w: xdata for %q already attached", ErrInvalidArgument, x.appReg.Name())
		}
	}
	if c := o.owner.Catalog(); c != nil {
		return c.validate(x.appReg)
	}
	return nil
}

func (o *xdataObserver) AfterAdd(x *XData) {
	if c := o.owner.Catalog(); c != nil {
		c.link(o.owner, xdataRef(x))
	}
}

func (o *xdataObserver) BeforeRemove(*XData) error { return nil }

func (o *xdataObserver) AfterRemove(x *XData) {
	if c := o.owner.Catalog(); c != nil {
		c.unlink(o.owner, xdataRef(x))
	}
}

func xdataRef(x *XData) dependency {
	return ref(RelXData, &x.appReg)
}

func xdataDependencies(l *observable.List[*XData]) []dependency {
	var deps []dependency
	for _, x := range l.All() {
		deps = append(deps, xdataRef(x))
	}
	return deps
}
