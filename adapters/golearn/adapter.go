// Package golearn converts between datavet frames and golearn
// DenseInstances, so validated data can flow straight into modeling code.
package golearn

import (
	"github.com/sjwhitworth/golearn/base"

	dv "github.com/wdm0006/datavet/pkg/datavet"
)

// ToDenseInstances converts a Frame into golearn DenseInstances. Numeric
// columns become float attributes, everything else categorical; the last
// column is registered as the class attribute.
func ToDenseInstances(f *dv.Frame) (*base.DenseInstances, error) {
	attrs := make([]base.Attribute, len(f.Schema().Columns))
	for i, cs := range f.Schema().Columns {
		if cs.Type.Numeric() {
			attrs[i] = base.NewFloatAttribute(cs.Name)
		} else {
			ca := new(base.CategoricalAttribute)
			ca.SetName(cs.Name)
			attrs[i] = ca
		}
	}
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		specs[i] = inst.AddAttribute(a)
	}
	if err := inst.Extend(f.Rows()); err != nil {
		return nil, err
	}

	for r := 0; r < f.Rows(); r++ {
		for c, cs := range f.Schema().Columns {
			col, _ := f.ColumnByName(cs.Name)
			if cs.Type.Numeric() {
				if v, ok := dv.Number(col, r); ok {
					inst.Set(specs[c], r, base.PackFloatToBytes(v))
				}
				continue
			}
			if sc, ok := col.(*dv.StringColumn); ok {
				if v, ok := sc.Get(r); ok {
					inst.Set(specs[c], r, base.Attribute.GetSysValFromString(attrs[c], v))
				}
			}
		}
	}
	if len(attrs) > 0 {
		if err := inst.AddClassAttribute(attrs[len(attrs)-1]); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// FromDenseInstances converts golearn DenseInstances into a Frame.
func FromDenseInstances(inst *base.DenseInstances) (*dv.Frame, error) {
	attrs := inst.AllAttributes()
	schema := dv.Schema{Columns: make([]dv.ColumnSchema, len(attrs))}
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		k := dv.KindString
		if a.GetType() == base.Float64Type {
			k = dv.KindFloat
		}
		schema.Columns[i] = dv.ColumnSchema{Name: a.GetName(), Type: k, Nullable: true}
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}
	f := dv.NewFrame(schema)
	_, nrows := inst.Size()
	for r := 0; r < nrows; r++ {
		f.AppendNullRow()
		for c, cs := range schema.Columns {
			if cs.Type == dv.KindFloat {
				v := base.UnpackBytesToFloat(inst.Get(specs[c], r))
				_ = f.SetCell(r, cs.Name, v)
			} else {
				v := base.Attribute.GetStringFromSysVal(specs[c].GetAttribute(), inst.Get(specs[c], r))
				_ = f.SetCell(r, cs.Name, v)
			}
		}
	}
	return f, nil
}
