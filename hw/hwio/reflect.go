package hwio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// MustInitRegs initializes all the hwio-tagged register fields of bank,
// panicking on malformed tags. Banks call it once, before mapping themselves
// into a Table.
func MustInitRegs(bank any) {
	if err := InitRegs(bank); err != nil {
		panic(err)
	}
}

// InitRegs scans bank (a pointer to struct) for fields carrying a "hwio"
// struct tag and initializes them: name, reset value, access flags, and
// read/write/peek callbacks resolved to methods of the bank itself.
//
// Callback methods are looked up by name: a field Foo with the "wcb" option
// binds WriteFOO, "rcb" binds ReadFOO, "pcb" binds PeekFOO. An explicit
// method name can be given with e.g. "pcb=PeekSomethingElse".
//
// Supported options: offset=N, bank=N, size=N, vsize=N, reset=N, rwmask=N,
// rcb[=Name], wcb[=Name], pcb[=Name], readonly, writeonly.
func InitRegs(bank any) error {
	v := reflect.ValueOf(bank)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("hwio: bank must be a pointer to struct, got %T", bank)
	}
	sv := v.Elem()
	st := sv.Type()

	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		opts, err := parseTag(tag)
		if err != nil {
			return fmt.Errorf("hwio: field %s.%s: %w", st.Name(), field.Name, err)
		}

		fname := strings.ToUpper(field.Name)
		fptr := sv.Field(i).Addr().Interface()

		switch reg := fptr.(type) {
		case *Reg8:
			if reg.Name == "" {
				reg.Name = fname
			}
			reg.Value = uint8(opts.reset)
			reg.RoMask = ^uint8(opts.rwmask)
			reg.Flags = opts.flags()
			if opts.rcb {
				cb, err := methodFor[func(uint8) uint8](v, opts.rcbName, "Read"+fname)
				if err != nil {
					return err
				}
				reg.ReadCb = cb
			}
			if opts.wcb {
				cb, err := methodFor[func(uint8, uint8)](v, opts.wcbName, "Write"+fname)
				if err != nil {
					return err
				}
				reg.WriteCb = cb
			}
			if opts.pcb {
				cb, err := methodFor[func(uint8) uint8](v, opts.pcbName, "Peek"+fname)
				if err != nil {
					return err
				}
				reg.PeekCb = cb
			}

		case *Device:
			if reg.Name == "" {
				reg.Name = fname
			}
			if opts.size == 0 {
				return fmt.Errorf("hwio: device %s has no size", fname)
			}
			reg.Size = int(opts.size)
			reg.Flags = opts.flags()
			if opts.rcb {
				cb, err := methodFor[func(uint16) uint8](v, opts.rcbName, "Read"+fname)
				if err != nil {
					return err
				}
				reg.ReadCb = cb
			}
			if opts.wcb {
				cb, err := methodFor[func(uint16, uint8)](v, opts.wcbName, "Write"+fname)
				if err != nil {
					return err
				}
				reg.WriteCb = cb
			}
			if opts.pcb {
				cb, err := methodFor[func(uint16) uint8](v, opts.pcbName, "Peek"+fname)
				if err != nil {
					return err
				}
				reg.PeekCb = cb
			}

		case *Mem:
			if reg.Name == "" {
				reg.Name = fname
			}
			if reg.Data == nil {
				if opts.size == 0 {
					return fmt.Errorf("hwio: mem %s has no size", fname)
				}
				reg.Data = make([]byte, opts.size)
			}
			reg.VSize = int(opts.vsize)
			if reg.VSize == 0 {
				reg.VSize = len(reg.Data)
			}
			if opts.readonly {
				reg.Flags |= MemFlag8ReadOnly
			}
			if opts.wcb {
				cb, err := methodFor[func(uint16, uint8)](v, opts.wcbName, "Write"+fname)
				if err != nil {
					return err
				}
				reg.WriteCb = cb
			}

		default:
			return fmt.Errorf("hwio: field %s.%s: unsupported type %T", st.Name(), field.Name, fptr)
		}
	}
	return nil
}

type regInfo struct {
	offset uint16
	regPtr any
}

// bankGetRegs returns the registers of bank belonging to bankNum, with their
// offsets. Fields without an offset option are not part of any bank.
func bankGetRegs(bank any, bankNum int) ([]regInfo, error) {
	v := reflect.ValueOf(bank)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("hwio: bank must be a pointer to struct, got %T", bank)
	}
	sv := v.Elem()
	st := sv.Type()

	var regs []regInfo
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		opts, err := parseTag(tag)
		if err != nil {
			return nil, fmt.Errorf("hwio: field %s.%s: %w", st.Name(), field.Name, err)
		}
		if !opts.hasOffset || opts.bank != bankNum {
			continue
		}
		regs = append(regs, regInfo{
			offset: uint16(opts.offset),
			regPtr: sv.Field(i).Addr().Interface(),
		})
	}
	return regs, nil
}

type tagOpts struct {
	offset    uint64
	hasOffset bool
	bank      int
	size      uint64
	vsize     uint64
	reset     uint64
	rwmask    uint64
	readonly  bool
	writeonly bool

	rcb, wcb, pcb             bool
	rcbName, wcbName, pcbName string
}

func (o *tagOpts) flags() RWFlags {
	var f RWFlags
	if o.readonly {
		f |= ReadOnlyFlag
	}
	if o.writeonly {
		f |= WriteOnlyFlag
	}
	return f
}

func parseTag(tag string) (tagOpts, error) {
	opts := tagOpts{rwmask: 0xff}
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, hasVal := strings.Cut(part, "=")
		switch key {
		case "offset":
			n, err := strconv.ParseUint(val, 0, 16)
			if err != nil {
				return opts, fmt.Errorf("bad offset %q", val)
			}
			opts.offset = n
			opts.hasOffset = true
		case "bank":
			n, err := strconv.ParseUint(val, 0, 8)
			if err != nil {
				return opts, fmt.Errorf("bad bank %q", val)
			}
			opts.bank = int(n)
		case "size":
			n, err := strconv.ParseUint(val, 0, 32)
			if err != nil {
				return opts, fmt.Errorf("bad size %q", val)
			}
			opts.size = n
		case "vsize":
			n, err := strconv.ParseUint(val, 0, 32)
			if err != nil {
				return opts, fmt.Errorf("bad vsize %q", val)
			}
			opts.vsize = n
		case "reset":
			n, err := strconv.ParseUint(val, 0, 8)
			if err != nil {
				return opts, fmt.Errorf("bad reset %q", val)
			}
			opts.reset = n
		case "rwmask":
			n, err := strconv.ParseUint(val, 0, 8)
			if err != nil {
				return opts, fmt.Errorf("bad rwmask %q", val)
			}
			opts.rwmask = n
		case "readonly":
			opts.readonly = true
		case "writeonly":
			opts.writeonly = true
		case "rcb":
			opts.rcb = true
			if hasVal {
				opts.rcbName = val
			}
		case "wcb":
			opts.wcb = true
			if hasVal {
				opts.wcbName = val
			}
		case "pcb":
			opts.pcb = true
			if hasVal {
				opts.pcbName = val
			}
		default:
			return opts, fmt.Errorf("unknown option %q", key)
		}
	}
	return opts, nil
}

func methodFor[F any](bank reflect.Value, explicit, implied string) (F, error) {
	var zero F
	name := implied
	if explicit != "" {
		name = explicit
	}
	m := bank.MethodByName(name)
	if !m.IsValid() {
		return zero, fmt.Errorf("hwio: method %s not found on %s", name, bank.Type())
	}
	cb, ok := m.Interface().(F)
	if !ok {
		return zero, fmt.Errorf("hwio: method %s has signature %s, want %T", name, m.Type(), zero)
	}
	return cb, nil
}
