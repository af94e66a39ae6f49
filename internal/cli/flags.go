package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/jeremyhahn/go-rtadmin/pkg/pipeline"
	"github.com/jeremyhahn/go-rtadmin/pkg/token"
)

// flags holds the raw operation flags of one invocation.
type flags struct {
	configFile string

	format      bool
	labelUTF8   string
	labelCP1251 string

	oldAdminPIN string
	oldUserPIN  string
	newAdminPIN string
	newUserPIN  string

	genAdminLen int
	genUserLen  int
	genAdmin    bool
	genUser     bool

	fromPool bool
	poolFile string

	pinPolicy        string
	minAdminPINLen   int
	minUserPINLen    int
	maxAdminAttempts int
	maxUserAttempts  int

	unblock             bool
	activationPasswords []string
	localPIN            []string
	localPINLogins      []string
	pin2                bool
	pin2Owner           string
	formatDrive         []string
	volumeAttributes    []string
	showVolumes         bool
}

func (f *flags) register(fs *pflag.FlagSet) {
	fs.BoolVarP(&f.format, "format", "f", false, "format the token")
	fs.StringVarP(&f.labelUTF8, "label-utf8", "L", "", "token label, written as UTF-8")
	fs.StringVarP(&f.labelCP1251, "label-cp1251", "D", "", "token label, written as CP1251 (wins over --label-utf8)")

	fs.StringVarP(&f.oldAdminPIN, "old-admin-pin", "o", "", "current admin PIN")
	fs.StringVarP(&f.oldUserPIN, "old-user-pin", "c", "", "current user PIN")
	fs.StringVarP(&f.newAdminPIN, "admin-pin", "a", "", "new admin PIN")
	fs.StringVarP(&f.newUserPIN, "user-pin", "u", "", "new user PIN")

	fs.IntVarP(&f.genAdminLen, "gen-admin-pin", "G", 0, "generate a new admin PIN of this length on the token")
	fs.IntVarP(&f.genUserLen, "gen-user-pin", "g", 0, "generate a new user PIN of this length on the token")

	fs.BoolVarP(&f.fromPool, "from-pool", "p", false, "take the new admin and user PINs from the PIN pool")
	fs.StringVar(&f.poolFile, "pin-pool", "", "PIN pool file, one PIN per line")

	fs.StringVar(&f.pinPolicy, "pin-policy", "", "who may change the user PIN after format: admin, user or both")
	fs.IntVar(&f.minAdminPINLen, "min-admin-pin-len", 0, "minimum admin PIN length set on format")
	fs.IntVar(&f.minUserPINLen, "min-user-pin-len", 0, "minimum user PIN length set on format")
	fs.IntVar(&f.maxAdminAttempts, "max-admin-attempts", 0, "admin PIN retry counter set on format")
	fs.IntVar(&f.maxUserAttempts, "max-user-attempts", 0, "user PIN retry counter set on format")

	fs.BoolVarP(&f.unblock, "unblock", "P", false, "unblock the user PIN")
	fs.StringSliceVar(&f.activationPasswords, "activation-passwords", nil, "generate activation passwords: smMode,caps|digits")
	fs.StringSliceVar(&f.localPIN, "set-local-pin", nil, "set a local PIN: owner,pin")
	fs.StringSliceVar(&f.localPINLogins, "local-pin-logins", nil, "local PINs for volume access: owner,pin[,owner,pin...]")
	fs.BoolVar(&f.pin2, "pin2", false, "set PIN2")
	fs.StringVar(&f.pin2Owner, "pin2-owner", "", "local owner PIN2 is set for (default local3)")
	fs.StringSliceVar(&f.formatDrive, "format-drive", nil, "partition the flash drive: owner:size:access[,...]")
	fs.StringSliceVar(&f.volumeAttributes, "volume-attributes", nil, "change volume access: id:access[:p|t][,...]")
	fs.BoolVar(&f.showVolumes, "show-volumes", false, "print the flash drive volumes")
}

// parsed records which optional flags were given; a generated PIN length
// of 0 is still a request, to be rejected by the token bounds.
func (f *flags) parsed(fs *pflag.FlagSet) {
	f.genAdmin = fs.Changed("gen-admin-pin")
	f.genUser = fs.Changed("gen-user-pin")
}

// options maps the flags onto the pipeline options. Malformed command
// arguments are left for the commands to reject when they run.
func (f *flags) options() (pipeline.Options, error) {
	opts := pipeline.Options{
		LabelUTF8:           f.labelUTF8,
		LabelCP1251:         f.labelCP1251,
		OldAdminPIN:         f.oldAdminPIN,
		OldUserPIN:          f.oldUserPIN,
		NewAdminPIN:         f.newAdminPIN,
		NewUserPIN:          f.newUserPIN,
		MinAdminPINLen:      f.minAdminPINLen,
		MinUserPINLen:       f.minUserPINLen,
		MaxAdminAttempts:    f.maxAdminAttempts,
		MaxUserAttempts:     f.maxUserAttempts,
		ActivationPasswords: f.activationPasswords,
		LocalPIN:            f.localPIN,
		LocalPINLogins:      f.localPINLogins,
		FormatVolumes:       f.formatDrive,
		VolumeAttributes:    f.volumeAttributes,
	}
	if f.genAdmin {
		n := f.genAdminLen
		opts.AdminPINLength = &n
	}
	if f.genUser {
		n := f.genUserLen
		opts.UserPINLength = &n
	}
	if p := strings.ToLower(strings.TrimSpace(f.pinPolicy)); p != "" {
		policy, err := token.ParsePINChangePolicy(p)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.PINChangePolicy = policy
	}
	return opts, nil
}

func (f *flags) changesPINs() bool {
	return f.fromPool || f.genAdmin || f.genUser ||
		strings.TrimSpace(f.newAdminPIN) != "" || strings.TrimSpace(f.newUserPIN) != ""
}

func (f *flags) hasLabel() bool {
	return strings.TrimSpace(f.labelUTF8) != "" || strings.TrimSpace(f.labelCP1251) != ""
}

// plan queues the requested operations in their fixed order.
func (f *flags) plan(b *pipeline.Builder) {
	if f.fromPool {
		b.WithPINsFromPool()
	}
	if f.genAdmin {
		b.WithGeneratedAdminPIN()
	}
	if f.genUser {
		b.WithGeneratedUserPIN()
	}

	switch {
	case f.format:
		b.WithFormat()
	case f.changesPINs():
		b.WithPINsChange()
	}
	if !f.format && f.hasLabel() {
		b.WithLabel()
	}

	if f.unblock {
		b.WithPINsUnblock()
	}
	if len(f.localPINLogins) > 0 {
		b.WithLocalPINLogins()
	}
	if len(f.localPIN) > 0 {
		b.WithLocalPIN()
	}
	if f.pin2 {
		b.WithPIN2()
	}
	if len(f.activationPasswords) > 0 {
		b.WithActivationPasswords()
	}
	if len(f.formatDrive) > 0 {
		b.WithDriveFormat()
	}
	if len(f.volumeAttributes) > 0 {
		b.WithVolumeAttributes()
	}
	if f.showVolumes {
		b.WithVolumeReport()
	}
}
