package config

import (
	"errors"
	"fmt"

	vipercast "github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configName = "memstat"

// Load reads the config file at path, or looks for memstat.{yaml,toml,json,...}
// in "etc" and the working directory when path is empty. A missing file is
// only an error when path was given explicitly; otherwise Load returns nil.
func Load(path string) (*viper.Viper, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath("etc")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	return v, nil
}

// ApplyFlags sets every flag not given on the command line from the
// config value of the same name.
func ApplyFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if v == nil {
		return nil
	}
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		values, err := flagValues(v.Get(f.Name))
		if err != nil {
			errs = append(errs, fmt.Errorf("cannot parse %s: %w", f.Name, err))
			return
		}
		for _, value := range values {
			if err := flags.Set(f.Name, value); err != nil {
				errs = append(errs, fmt.Errorf("cannot set %s: %w", f.Name, err))
				return
			}
		}
	})
	return errors.Join(errs...)
}

func flagValues(raw interface{}) ([]string, error) {
	switch raw.(type) {
	case []interface{}, []string:
		return vipercast.ToStringSliceE(raw)
	}
	value, err := vipercast.ToStringE(raw)
	if err != nil {
		return nil, err
	}
	return []string{value}, nil
}
