package commands

// logo is drawn by output.Banner: ':' cells are painted, everything else is
// blanked out.
const logo = `l::::::::::::::::::::::::::::::::::::::l
::::::::::::::::::::::::::::::::::::::::
::::::::::::::::::::::::::::::::::::::::
::::::::::::::::::::::::::::::::::::::::
:::::::::::::::::ok00ko:::::::::::::::::
:::::::::::::::cdXWMMWXdc:::::::::::::::
::::::::::::::cxXMMMMMMXxc::::::::::::::
:::::::::::::ckNMMMMMMMMNkl:::::::::::::
::::::::::::lOWMMMMMMMMMMWOl::::::::::::
:::::::::::o0WMMMMMMMMMMMMW0o:::::::::::
:::::::::cdKWMMMMMMMMMMMMMMWKdc:::::::::
::::::::cxXMMMMMMMMMMMMMMMMMMXxc::::::::
::::::::cxXWWWWWWWWWWWWWWWWWWXxc::::::::
:::::::::clooooooooodoooooooolc:::::::::
::::::::::::::::::::::::::::::::::::::::
::::::::::::::::::::::::::::::::::::::::
::::::::::::::::::::::::::::::::::::::::
oc::::::::::::::::::::::::::::::::::::co`
