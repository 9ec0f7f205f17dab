package pp2cil

import "fmt"

// Translate is the top-level orchestration entry point (spec §2's data-flow
// diagram: `PolicyDecoder → PolicyDatabase → BlockWalker → ... → Emitter`).
// c.DB must already be fully populated by a PolicyDecoder and c.ModuleName
// already sanitized by SanitizeModuleName; Translate never parses the binary
// package itself.
func Translate(c *Context) error {
	if c.DB.PolicyType == PolicyBase {
		if err := c.lowerBaseModulePrelude(); err != nil {
			return err
		}
	}
	if err := c.lowerPolicyCaps(); err != nil {
		return err
	}
	if err := c.Walk(c.DB.GlobalBlocks, 0); err != nil {
		return err
	}
	if err := c.LowerOContexts(0); err != nil {
		return err
	}
	return c.LowerSideCars(0)
}

// lowerBaseModulePrelude emits the base-module-only prelude spec §6 names:
// the implicit object_r role, handleunknown, mls, and, for a non-MLS base
// module, the default sensitivity/order/level pre-emission so downstream
// contexts have something to reference.
func (c *Context) lowerBaseModulePrelude() error {
	if err := c.Emit.line(0, fmt.Sprintf("(role %s)", defaultObject)); err != nil {
		return err
	}
	kw, ok := c.DB.HandleUnknown.Keyword()
	if !ok {
		return fmt.Errorf("%w: unknown handleunknown mode %v", ErrStructural, c.DB.HandleUnknown)
	}
	if err := c.Emit.line(0, fmt.Sprintf("(handleunknown %s)", kw)); err != nil {
		return err
	}
	mls := "false"
	if c.DB.MLS {
		mls = "true"
	}
	if err := c.Emit.line(0, fmt.Sprintf("(mls %s)", mls)); err != nil {
		return err
	}
	if c.DB.MLS {
		return nil
	}
	if err := c.Emit.line(0, fmt.Sprintf("(sensitivity %s)", defaultSensName)); err != nil {
		return err
	}
	if err := c.Emit.line(0, fmt.Sprintf("(sensitivityorder (%s))", defaultSensName)); err != nil {
		return err
	}
	return c.Emit.line(0, fmt.Sprintf("(level %s (%s))", defaultLevelLiteral, defaultSensName))
}

// lowerPolicyCaps emits one (policycap <name>) per set bit in the policy's
// capability bitmap, spec §6.
func (c *Context) lowerPolicyCaps() error {
	for _, bit := range c.DB.PolicyCaps.Bits() {
		name, err := c.Caps.CapabilityName(bit)
		if err != nil {
			return err
		}
		if err := c.Emit.line(0, fmt.Sprintf("(policycap %s)", name)); err != nil {
			return err
		}
	}
	return nil
}
