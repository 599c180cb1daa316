package bot

import (
	"context"
	"strconv"
	"time"

	"emperror.dev/errors"
	"github.com/ReneKroon/ttlcache/v2"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/snitch/common"
	"github.com/starshine-sys/snitch/db"
	"github.com/starshine-sys/snitch/store"
)

const settingsTTL = 5 * time.Minute

// Settings returns the guild's settings, cached for a few minutes.
func (bot *Bot) Settings(ctx context.Context, guildID discord.GuildID) (db.GuildSettings, error) {
	key := guildID.String()

	v, err := bot.settings.Get(key)
	if err == nil {
		return v.(db.GuildSettings), nil
	}
	if !errors.Is(err, ttlcache.ErrNotFound) {
		return db.GuildSettings{}, errors.Wrap(err, "getting cached settings")
	}

	s, err := bot.DB.Settings(ctx, uint64(guildID))
	if err != nil {
		return s, err
	}

	// a failed cache write only means the next call hits the database again
	_ = bot.settings.Set(key, s)
	return s, nil
}

// ForgetSettings drops the guild's cached settings. It must be called after changing them.
func (bot *Bot) ForgetSettings(guildID discord.GuildID) {
	_ = bot.settings.Remove(guildID.String())
}

// Prefixes returns the guild's command prefixes.
// Mentioning the bot always works as a prefix.
func (bot *Bot) Prefixes(ctx context.Context, guildID discord.GuildID) ([]string, error) {
	var prefixes []string

	if guildID.IsValid() {
		s, err := bot.Settings(ctx, guildID)
		if err != nil {
			return nil, err
		}
		prefixes = append(prefixes, s.Prefixes...)
	}
	if len(prefixes) == 0 {
		prefixes = append(prefixes, bot.Config.Bot.Prefixes...)
	}

	if me := bot.Me(); me.ID.IsValid() {
		prefixes = append(prefixes, "<@"+me.ID.String()+">", "<@!"+me.ID.String()+">")
	}
	return prefixes, nil
}

// ModuleEnabled returns true if the module is not disabled in the guild.
func (bot *Bot) ModuleEnabled(ctx context.Context, guildID discord.GuildID, module string) (bool, error) {
	s, err := bot.Settings(ctx, guildID)
	if err != nil {
		return false, err
	}
	return !s.ModuleDisabled(module), nil
}

// AutomodImmune returns true if the member should be ignored by automatic moderation:
// bot owners, the guild owner, administrators, and users and roles on the guild's immunity list.
func (bot *Bot) AutomodImmune(ctx context.Context, guildID discord.GuildID, userID discord.UserID, roleIDs []discord.RoleID) (bool, error) {
	if bot.Config.Bot.IsOwner(userID) {
		return true, nil
	}

	g, err := bot.Cabinet.Guild(ctx, guildID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return false, errors.Wrap(err, "getting guild")
	}
	if g.OwnerID == userID {
		return true, nil
	}

	s, err := bot.Settings(ctx, guildID)
	if err != nil {
		return false, err
	}
	if common.Contains(s.ImmuneUsers, int64(userID)) {
		return true, nil
	}

	for _, id := range roleIDs {
		if common.Contains(s.ImmuneRoles, int64(id)) {
			return true, nil
		}

		r, err := bot.Cabinet.Role(ctx, guildID, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return false, errors.Wrap(err, "getting role")
		}
		if r.Permissions.Has(discord.PermissionAdministrator) {
			return true, nil
		}
	}

	return false, nil
}

// FormatIDs formats a list of stored IDs as mentions.
func FormatIDs(ids []int64, mention func(int64) string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, mention(id))
	}
	return out
}

// UserMention formats a stored user ID as a mention.
func UserMention(id int64) string { return "<@" + strconv.FormatInt(id, 10) + ">" }

// RoleMention formats a stored role ID as a mention.
func RoleMention(id int64) string { return "<@&" + strconv.FormatInt(id, 10) + ">" }
